package publish

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/jlaffaye/ftp"

	"HealthNewsRelay/internal/ports"
)

// FTPConfig holds the remote store settings.
type FTPConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	RemoteDir string
}

// FTPUploader mirrors published artifacts to the FTP store, preserving their
// paths relative to the local output root.
type FTPUploader struct {
	cfg       FTPConfig
	localRoot string
	logger    *slog.Logger
}

var _ ports.Uploader = (*FTPUploader)(nil)

// NewFTPUploader builds the uploader; localRoot is the publisher's output
// directory that remote paths mirror.
func NewFTPUploader(cfg FTPConfig, localRoot string, logger *slog.Logger) *FTPUploader {
	if cfg.Port == 0 {
		cfg.Port = 21
	}
	return &FTPUploader{cfg: cfg, localRoot: localRoot, logger: logger}
}

// Configured reports whether connection credentials are present.
func (u *FTPUploader) Configured() bool {
	return u.cfg.Host != "" && u.cfg.Username != "" && u.cfg.Password != ""
}

// Upload pushes the given local files, creating remote directories as needed.
// One session covers the whole batch.
func (u *FTPUploader) Upload(ctx context.Context, localPaths []string) error {
	if !u.Configured() {
		return fmt.Errorf("ftp uploader is not configured")
	}
	if len(localPaths) == 0 {
		return nil
	}

	addr := fmt.Sprintf("%s:%d", u.cfg.Host, u.cfg.Port)
	conn, err := ftp.Dial(addr, ftp.DialWithContext(ctx), ftp.DialWithTimeout(15*time.Second))
	if err != nil {
		return fmt.Errorf("dial ftp %s: %w", addr, err)
	}
	defer func() { _ = conn.Quit() }()

	if err := conn.Login(u.cfg.Username, u.cfg.Password); err != nil {
		return fmt.Errorf("ftp login: %w", err)
	}

	created := map[string]struct{}{}
	for _, local := range localPaths {
		remote, err := u.remotePath(local)
		if err != nil {
			return err
		}
		u.ensureDirs(conn, path.Dir(remote), created)

		file, err := os.Open(local)
		if err != nil {
			return fmt.Errorf("open %s: %w", local, err)
		}
		err = conn.Stor(remote, file)
		_ = file.Close()
		if err != nil {
			return fmt.Errorf("upload %s: %w", remote, err)
		}
		u.debug("uploaded", "remote", remote)
	}
	return nil
}

// remotePath maps a local artifact onto the mirrored remote path.
func (u *FTPUploader) remotePath(local string) (string, error) {
	rel, err := filepath.Rel(u.localRoot, local)
	if err != nil || strings.HasPrefix(rel, "..") {
		return "", fmt.Errorf("path %s is outside the output root %s", local, u.localRoot)
	}
	return path.Join(u.cfg.RemoteDir, filepath.ToSlash(rel)), nil
}

// ensureDirs creates each remote directory segment once per session. MakeDir
// failing on an existing directory is expected and ignored.
func (u *FTPUploader) ensureDirs(conn *ftp.ServerConn, dir string, created map[string]struct{}) {
	if dir == "." || dir == "/" || dir == "" {
		return
	}

	segments := strings.Split(strings.Trim(dir, "/"), "/")
	current := ""
	for _, seg := range segments {
		current = path.Join(current, seg)
		if _, ok := created[current]; ok {
			continue
		}
		_ = conn.MakeDir(current)
		created[current] = struct{}{}
	}
}

func (u *FTPUploader) debug(msg string, args ...any) {
	if u.logger != nil {
		u.logger.Debug(msg, args...)
	}
}

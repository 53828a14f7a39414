package publish

import (
	"html/template"
	"io"
	"time"

	"HealthNewsRelay/internal/domain"
)

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="sk">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: Georgia, serif; max-width: 48rem; margin: 2rem auto; padding: 0 1rem; color: #222; }
h1 { font-size: 1.5rem; border-bottom: 2px solid #444; padding-bottom: .5rem; }
article { margin-bottom: 2rem; }
h2 { font-size: 1.2rem; margin-bottom: .3rem; }
.appendix { font-style: italic; color: #555; font-size: .95rem; }
.source { font-size: .85rem; color: #777; word-break: break-all; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
<p class="source">Vygenerované: {{.Generated}}</p>
{{range $i, $a := .Articles}}<article>
<h2>{{$a.Headline}}</h2>
<p class="source">Zdroj: <a href="{{$a.URL}}">{{$a.URL}}</a></p>
{{if $a.Excerpt}}<p class="appendix">{{$a.Excerpt}}</p>
{{end}}{{if $a.Summary}}<p>{{$a.Summary}}</p>
{{end}}{{if $a.Appendix}}<p class="appendix">{{$a.Appendix}}</p>
{{end}}</article>
{{end}}</body>
</html>
`))

type pageData struct {
	Title     string
	Generated string
	Articles  []pageArticle
}

type pageArticle struct {
	Headline string
	Excerpt  string
	Summary  string
	Appendix string
	URL      string
}

// renderHTML writes the self-contained HTML counterpart of a batch document.
func renderHTML(w io.Writer, title string, now time.Time, articles []domain.ArticleRecord) error {
	data := pageData{Title: title, Generated: now.Format("2006-01-02 15:04")}
	for _, a := range articles {
		headline := a.TranslatedTitle
		if headline == "" {
			headline = a.Title
		}
		data.Articles = append(data.Articles, pageArticle{
			Headline: headline,
			Excerpt:  excerptText(a.Text),
			Summary:  a.SummaryText,
			Appendix: a.AppendixText,
			URL:      a.URL,
		})
	}
	return pageTemplate.Execute(w, data)
}

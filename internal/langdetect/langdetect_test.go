package langdetect

import "testing"

func TestDetect(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		text string
		want string
	}{
		{
			name: "slovak exclusive diacritics",
			text: "Vedci zistili, že ľudia s pravidelným pohybom majú zdravšie srdce.",
			want: LangSlovak,
		},
		{
			name: "czech exclusive diacritics",
			text: "Lékaři varují před novou vlnou chřipky, očkování je stále možné.",
			want: LangCzech,
		},
		{
			name: "shared diacritics with czech marker",
			text: "Nová studie ukázala, že tento lék není účinný u starších pacientů.",
			want: LangCzech,
		},
		{
			name: "shared diacritics defaults to slovak",
			text: "Zdravá strava a pohyb sú základ.",
			want: LangSlovak,
		},
		{
			name: "english",
			text: "Researchers discovered a new way to diagnose cancer earlier.",
			want: LangOther,
		},
		{
			name: "empty",
			text: "",
			want: LangOther,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Detect(tc.text); got != tc.want {
				t.Fatalf("Detect(%q) = %q, want %q", tc.text, got, tc.want)
			}
		})
	}
}

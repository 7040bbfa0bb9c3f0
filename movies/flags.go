package movies

import (
	"strings"

	"github.com/pilosa/relkit"
)

// Genres are the genre indicator columns of the processed Netflix file.
var Genres = []string{
	"Action", "Adult", "Adventure", "Animation", "Biography", "Comedy", "Crime",
	"Documentary", "Drama", "Family", "Fantasy", "Film-Noir", "Game-Show", "History",
	"Horror", "Music", "Musical", "Mystery", "News", "Reality-TV", "Romance",
	"Sci-Fi", "Short", "Sport", "Talk-Show", "Thriller", "War", "Western",
}

// Countries are the production country indicator columns, by ISO 3166 code.
var Countries = []string{
	"AD", "AE", "AG", "AL", "AO", "AR", "AT", "AU", "AZ", "BA", "BB", "BE", "BG", "BH",
	"BM", "BO", "BR", "BS", "BY", "BZ", "CA", "CH", "CI", "CL", "CM", "CO", "CR", "CU",
	"CV", "CY", "CZ", "DE", "DK", "DO", "DZ", "EC", "EE", "EG", "ES", "FI", "FJ", "FR",
	"GB", "GF", "GG", "GH", "GI", "GQ", "GR", "GT", "HK", "HN", "HR", "HU", "ID", "IE",
	"IL", "IN", "IQ", "IS", "IT", "JM", "JO", "JP", "KE", "KR", "KW", "LB", "LC", "LI",
	"LT", "LU", "LV", "LY", "MA", "MC", "MD", "ME", "MG", "MK", "ML", "MT", "MU", "MX",
	"MY", "MZ", "NE", "NG", "NI", "NL", "NO", "NZ", "OM", "PA", "PE", "PF", "PH", "PK",
	"PL", "PS", "PT", "PY", "QA", "RO", "RS", "SA", "SC", "SE", "SG", "SI", "SK", "SM",
	"SN", "SV", "TC", "TD", "TH", "TN", "TR", "TT", "TW", "TZ", "UA", "UG", "US", "UY",
	"VE", "YE", "ZA", "ZM", "ZW",
}

// Flags returns every indicator column header, genres first.
func Flags() []string {
	return append(append([]string(nil), Genres...), Countries...)
}

// flagColumn maps a source header to its column name.
func flagColumn(header string) string {
	name := strings.ToLower(strings.ReplaceAll(header, "-", "_"))
	switch name {
	case "in", "is":
		name += "_"
	}
	return name
}

func flagColumns() []relkit.Column {
	flags := Flags()
	cols := make([]relkit.Column, len(flags))
	for i, f := range flags {
		cols[i] = relkit.Column{Name: flagColumn(f), Type: relkit.Bool, Default: "FALSE"}
	}
	return cols
}

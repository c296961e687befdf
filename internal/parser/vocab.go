package parser

import "regexp"

// wordRe compiles a case-sensitive whole-word pattern. Parse lowercases
// the query before matching, so the vocabulary is all lowercase.
func wordRe(phrase string) *regexp.Regexp {
	return regexp.MustCompile(`\b` + regexp.QuoteMeta(phrase) + `\b`)
}

type categoryEntry struct {
	re       *regexp.Regexp
	category string
}

// categoryVocab maps query keywords to canonical categories. Ordered:
// multi-word phrases come before single tokens, and the first match wins.
var categoryVocab = []categoryEntry{
	{wordRe("open mic"), "open-mic"},
	{wordRe("stand up"), "comedy"},
	{wordRe("stand-up"), "comedy"},
	{wordRe("live music"), "music"},
	{wordRe("comedy"), "comedy"},
	{wordRe("standup"), "comedy"},
	{wordRe("music"), "music"},
	{wordRe("concert"), "music"},
	{wordRe("gig"), "music"},
	{wordRe("workshop"), "workshop"},
	{wordRe("theatre"), "theatre"},
	{wordRe("poetry"), "poetry"},
	{wordRe("quiz"), "quiz"},
}

type localityEntry struct {
	re   *regexp.Regexp
	area string
	city string
}

// localityVocab maps colloquial neighbourhood names to a canonical
// {area, city} pair. Multi-word aliases first; first match wins.
var localityVocab = []localityEntry{
	{wordRe("jp nagar"), "JP Nagar", "Bengaluru"},
	{wordRe("hsr layout"), "HSR Layout", "Bengaluru"},
	{wordRe("indiranagar"), "Indiranagar", "Bengaluru"},
	{wordRe("koramangala"), "Koramangala", "Bengaluru"},
	{wordRe("hsr"), "HSR Layout", "Bengaluru"},
	{wordRe("whitefield"), "Whitefield", "Bengaluru"},
	{wordRe("jayanagar"), "Jayanagar", "Bengaluru"},
	{wordRe("malleswaram"), "Malleswaram", "Bengaluru"},
}

type cityEntry struct {
	re   *regexp.Regexp
	city string
}

// cityVocab maps bare city names; a match sets city only, area stays unset.
var cityVocab = []cityEntry{
	{wordRe("bangalore"), "Bengaluru"},
	{wordRe("bengaluru"), "Bengaluru"},
	{wordRe("mumbai"), "Mumbai"},
	{wordRe("delhi"), "Delhi"},
	{wordRe("pune"), "Pune"},
	{wordRe("hyderabad"), "Hyderabad"},
}

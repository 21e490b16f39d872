// Package wiktionary turns wiktextract/Kaikki JSONL lines into storage rows.
// Pure functions only: a line in, a domain.WordEntry out. No database access.
package wiktionary

// kaikkiEntry mirrors one wiktextract JSONL line (only fields we need).
type kaikkiEntry struct {
	Word         string              `json:"word"`
	LangCode     string              `json:"lang_code"`
	Lang         string              `json:"lang"`
	POS          string              `json:"pos"`
	Senses       []kaikkiSense       `json:"senses"`
	Sounds       []kaikkiSound       `json:"sounds"`
	Forms        []kaikkiForm        `json:"forms"`
	Translations []kaikkiTranslation `json:"translations"`
	Synonyms     []kaikkiLinkage     `json:"synonyms"`
	Antonyms     []kaikkiLinkage     `json:"antonyms"`
}

type kaikkiSense struct {
	Glosses      []string            `json:"glosses"`
	Examples     []kaikkiExample     `json:"examples"`
	Translations []kaikkiTranslation `json:"translations"`
	Synonyms     []kaikkiLinkage     `json:"synonyms"`
	Antonyms     []kaikkiLinkage     `json:"antonyms"`
}

type kaikkiExample struct {
	Text string `json:"text"`
}

type kaikkiSound struct {
	IPA    string   `json:"ipa"`
	Tags   []string `json:"tags"`
	MP3URL string   `json:"mp3_url"`
	OggURL string   `json:"ogg_url"`
}

type kaikkiForm struct {
	Form string   `json:"form"`
	Tags []string `json:"tags"`
}

type kaikkiTranslation struct {
	Code     string `json:"code"`
	LangCode string `json:"lang_code"`
	Lang     string `json:"lang"`
	Word     string `json:"word"`
}

type kaikkiLinkage struct {
	Word string `json:"word"`
}

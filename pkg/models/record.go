package models

import "encoding/json"

// ObjectPage is one page of the collection API's object search response:
// {"info": {...}, "records": [...]}.
type ObjectPage struct {
	Info    PageInfo          `json:"info"`
	Records []json.RawMessage `json:"records"`
}

// PageInfo is the pagination block of an ObjectPage. Pages is zero when the
// API omits it.
type PageInfo struct {
	TotalRecords int `json:"totalrecords"`
	PerPage      int `json:"totalrecordsperquery"`
	Pages        int `json:"pages"`
	Page         int `json:"page"`
}

// RawRecord holds the fields of one API object the normalizer reads. Every
// field stays raw so that missing keys, nulls and loosely-typed values can be
// told apart at the normalization boundary.
type RawRecord struct {
	ID            json.RawMessage `json:"id"`
	Title         json.RawMessage `json:"title"`
	Culture       json.RawMessage `json:"culture"`
	Dated         json.RawMessage `json:"dated"`
	Period        json.RawMessage `json:"period"`
	Division      json.RawMessage `json:"division"`
	Medium        json.RawMessage `json:"medium"`
	Dimensions    json.RawMessage `json:"dimensions"`
	Weight        json.RawMessage `json:"weight"`
	Department    json.RawMessage `json:"department"`
	AccessionYear json.RawMessage `json:"accessionyear"`
	ImageCount    json.RawMessage `json:"imagecount"`
	MediaCount    json.RawMessage `json:"mediacount"`
	ColorCount    json.RawMessage `json:"colorcount"`
	Rank          json.RawMessage `json:"rank"`
	DatedBegin    json.RawMessage `json:"datedbegin"`
	DatedEnd      json.RawMessage `json:"datedend"`
	Colors        json.RawMessage `json:"colors"`
}

// RawColor is one entry of a record's colors list.
type RawColor struct {
	Hue     json.RawMessage `json:"hue"`
	Percent json.RawMessage `json:"percent"`
}

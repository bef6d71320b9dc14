package hathitrust

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Record is one row of a HathiTrust hathifile
// Format: https://www.hathitrust.org/member-libraries/resources-for-librarians/data-resources/hathifiles/
type Record struct {
	// Item identifiers; HTIdentifier looks like mdp.39015012345678
	HTIdentifier string `json:"ht identifier" parquet:"ht_identifier,optional"`
	Access       string `json:"access" parquet:"access,optional"`
	Rights       string `json:"rights" parquet:"rights,optional"`
	HTRecord     string `json:"ht record number" parquet:"ht_record_number,optional"`

	// Volume designation, e.g. "v.12" or "1987-88"
	EnumChron string `json:"enumeration/chronology" parquet:"enumeration_chronology,optional"`

	Source             string `json:"source" parquet:"source,optional"`
	SourceRecordNumber string `json:"source institution record number" parquet:"source_institution_record_number,optional"`

	// Standard numbers, comma separated when there are several
	OCLC  string `json:"oclc numbers" parquet:"oclc_numbers,optional"`
	ISBNs string `json:"ISBNs" parquet:"isbns,optional"`
	ISSNs string `json:"ISSNs" parquet:"issns,optional"`
	LCCNs string `json:"LCCNs" parquet:"lccns,optional"`

	Title   string `json:"title" parquet:"title,optional"`
	Imprint string `json:"imprint" parquet:"imprint,optional"`

	RightsReasonCode string `json:"rights determination reason code" parquet:"rights_determination_reason_code,optional"`
	LastUpdate       string `json:"date of last update" parquet:"date_of_last_update,optional"`
	GovDoc           string `json:"is government document" parquet:"is_government_document,optional"`

	// PubDate is 9999 when the year is unknown
	PubDate  string `json:"publication date" parquet:"publication_date,optional"`
	PubPlace string `json:"publication place" parquet:"publication_place,optional"`
	Language string `json:"language" parquet:"language,optional"`
	Format   string `json:"bibliographic format" parquet:"bibliographic_format,optional"`
}

// Columns lists the hathifile columns in the order they appear in the
// tab-delimited dump. The order must not change.
var Columns = []string{
	"ht identifier",
	"access",
	"rights",
	"ht record number",
	"enumeration/chronology",
	"source",
	"source institution record number",
	"oclc numbers",
	"ISBNs",
	"ISSNs",
	"LCCNs",
	"title",
	"imprint",
	"rights determination reason code",
	"date of last update",
	"is government document",
	"publication date",
	"publication place",
	"language",
	"bibliographic format",
}

// UnknownYear is the publication date HathiTrust uses when the year is not known.
const UnknownYear = "9999"

// fields returns pointers to the record fields in Columns order.
func (r *Record) fields() []*string {
	return []*string{
		&r.HTIdentifier,
		&r.Access,
		&r.Rights,
		&r.HTRecord,
		&r.EnumChron,
		&r.Source,
		&r.SourceRecordNumber,
		&r.OCLC,
		&r.ISBNs,
		&r.ISSNs,
		&r.LCCNs,
		&r.Title,
		&r.Imprint,
		&r.RightsReasonCode,
		&r.LastUpdate,
		&r.GovDoc,
		&r.PubDate,
		&r.PubPlace,
		&r.Language,
		&r.Format,
	}
}

// UnmarshalJSON reads a record keyed by the Columns names. Exports do not
// always quote values, so numbers and booleans are kept as their literal
// text and null leaves the field empty. Unknown keys are ignored.
func (r *Record) UnmarshalJSON(data []byte) error {
	var raw map[string]fieldText
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*r = Record{}
	fields := r.fields()
	for i, name := range Columns {
		if v, ok := raw[name]; ok {
			*fields[i] = string(v)
		}
	}
	return nil
}

// fieldText is a JSON value read as text.
type fieldText string

func (f *fieldText) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*f = ""
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = fieldText(s)
	default:
		*f = fieldText(data)
	}
	return nil
}

// RecordFromFields builds a record from positional hathifile values.
// Missing trailing values stay empty and extra values are ignored.
func RecordFromFields(values []string) Record {
	var r Record
	for i, f := range r.fields() {
		if i >= len(values) {
			break
		}
		*f = values[i]
	}
	return r
}

// Project returns a copy of the record holding only the fields the
// summarizer reads.
func (r Record) Project() Record {
	return Record{
		HTIdentifier:       r.HTIdentifier,
		Rights:             r.Rights,
		OCLC:               r.OCLC,
		SourceRecordNumber: r.SourceRecordNumber,
		Title:              r.Title,
		EnumChron:          r.EnumChron,
		Imprint:            r.Imprint,
		PubDate:            r.PubDate,
		PubPlace:           r.PubPlace,
	}
}

// SourcePrefix returns the part of the HathiTrust identifier before the
// first dot, which names the contributing institution (e.g. "mdp").
func (r Record) SourcePrefix() string {
	prefix, _, _ := strings.Cut(r.HTIdentifier, ".")
	return prefix
}

// PublishedBy reports whether the imprint mentions the publisher.
func (r Record) PublishedBy(publisher string) bool {
	return strings.Contains(r.Imprint, publisher)
}

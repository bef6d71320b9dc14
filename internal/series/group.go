// Package series groups HathiTrust records into serial runs and summarizes
// each run: item counts, representative metadata, publication years and
// the volumes that are present or missing.
package series

import (
	"github.com/lehigh-university-libraries/htpubsum/internal/hathitrust"
)

const (
	// LocalKeyPrefix marks series keys built from the contributor's record number.
	LocalKeyPrefix = "local (non-oclc): "

	// NoEnumeration is the volume key for records without an enumeration.
	NoEnumeration = "no enumeration value"
)

// Volume holds the records that share one enumeration/chronology value.
type Volume struct {
	Key     string
	Records []hathitrust.Record
}

// Series holds every record that describes the same bibliographic work.
type Series struct {
	Key     string
	Volumes []*Volume

	index map[string]*Volume
}

// Groups is the result of grouping, in order of first appearance.
type Groups struct {
	Series []*Series

	index map[string]*Series
}

// Key returns the series key of a record: its OCLC numbers, or the
// contributing institution's record number when there are none.
func Key(r hathitrust.Record) string {
	if r.OCLC != "" {
		return r.OCLC
	}
	return LocalKeyPrefix + r.SourceRecordNumber
}

// VolumeKey returns the key used to bucket a record inside its series.
func VolumeKey(r hathitrust.Record) string {
	if r.EnumChron != "" {
		return r.EnumChron
	}
	return NoEnumeration
}

// Group buckets records by series key and then by volume key. Encounter
// order is kept at every level.
func Group(records []hathitrust.Record) *Groups {
	g := &Groups{index: make(map[string]*Series)}
	for _, r := range records {
		g.add(r)
	}
	return g
}

func (g *Groups) add(r hathitrust.Record) {
	key := Key(r)
	s, ok := g.index[key]
	if !ok {
		s = &Series{Key: key, index: make(map[string]*Volume)}
		g.index[key] = s
		g.Series = append(g.Series, s)
	}
	s.add(r)
}

func (s *Series) add(r hathitrust.Record) {
	key := VolumeKey(r)
	v, ok := s.index[key]
	if !ok {
		v = &Volume{Key: key}
		s.index[key] = v
		s.Volumes = append(s.Volumes, v)
	}
	v.Records = append(v.Records, r)
}

// Get returns the series with the given key.
func (g *Groups) Get(key string) (*Series, bool) {
	s, ok := g.index[key]
	return s, ok
}

// Len returns the number of series.
func (g *Groups) Len() int {
	return len(g.Series)
}

// Items returns the number of records in the series across all volumes.
func (s *Series) Items() int {
	n := 0
	for _, v := range s.Volumes {
		n += len(v.Records)
	}
	return n
}

// Representative returns the first record seen for the series.
func (s *Series) Representative() hathitrust.Record {
	return s.Volumes[0].Records[0]
}

// Records iterates over all records of the series, volume by volume.
func (s *Series) Records(yield func(hathitrust.Record) bool) {
	for _, v := range s.Volumes {
		for _, r := range v.Records {
			if !yield(r) {
				return
			}
		}
	}
}

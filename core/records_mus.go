package core

import (
	"time"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/raw"
	"github.com/mus-format/mus-go/varint"
)

// SearchResultMUS encodes a SearchResult in MUS format.
var SearchResultMUS = searchResultMUS{}

// CacheEntryMUS encodes a CacheEntry in MUS format.
var CacheEntryMUS = cacheEntryMUS{}

// timeMUS writes an instant as Unix seconds followed by nanoseconds and
// decodes it in UTC. The zero time is written as 0, 0.
var timeMUS = timeSer{}

type timeSer struct{}

func (timeSer) Marshal(t time.Time, bs []byte) (n int) {
	sec, nsec := int64(0), int64(0)
	if !t.IsZero() {
		sec, nsec = t.Unix(), int64(t.Nanosecond())
	}
	n = varint.Int64.Marshal(sec, bs)
	return n + varint.Int64.Marshal(nsec, bs[n:])
}

func (timeSer) Unmarshal(bs []byte) (t time.Time, n int, err error) {
	sec, n, err := varint.Int64.Unmarshal(bs)
	if err != nil {
		return
	}
	nsec, n1, err := varint.Int64.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	if sec == 0 && nsec == 0 {
		return time.Time{}, n, nil
	}
	return time.Unix(sec, nsec).UTC(), n, nil
}

func (timeSer) Size(t time.Time) int {
	if t.IsZero() {
		return varint.Int64.Size(0) * 2
	}
	return varint.Int64.Size(t.Unix()) + varint.Int64.Size(int64(t.Nanosecond()))
}

type searchResultMUS struct{}

func (searchResultMUS) Marshal(v SearchResult, bs []byte) (n int) {
	n = ord.String.Marshal(v.Title, bs)
	n += ord.String.Marshal(v.URL, bs[n:])
	n += ord.String.Marshal(v.Snippet, bs[n:])
	n += ord.String.Marshal(v.Source, bs[n:])
	n += raw.Float64.Marshal(v.RelevanceScore, bs[n:])
	return n + timeMUS.Marshal(v.Timestamp, bs[n:])
}

func (searchResultMUS) Unmarshal(bs []byte) (v SearchResult, n int, err error) {
	var n1 int
	if v.Title, n, err = ord.String.Unmarshal(bs); err != nil {
		return
	}
	v.URL, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Snippet, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Source, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.RelevanceScore, n1, err = raw.Float64.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Timestamp, n1, err = timeMUS.Unmarshal(bs[n:])
	n += n1
	return
}

func (searchResultMUS) Size(v SearchResult) (size int) {
	size = ord.String.Size(v.Title)
	size += ord.String.Size(v.URL)
	size += ord.String.Size(v.Snippet)
	size += ord.String.Size(v.Source)
	size += raw.Float64.Size(v.RelevanceScore)
	return size + timeMUS.Size(v.Timestamp)
}

func (s searchResultMUS) Skip(bs []byte) (n int, err error) {
	_, n, err = s.Unmarshal(bs)
	return
}

type cacheEntryMUS struct{}

func (cacheEntryMUS) Marshal(v CacheEntry, bs []byte) (n int) {
	n = varint.Int.Marshal(len(v.Results), bs)
	for _, r := range v.Results {
		n += SearchResultMUS.Marshal(r, bs[n:])
	}
	return n + timeMUS.Marshal(v.Timestamp, bs[n:])
}

// Unmarshal always returns a non-nil Results slice.
func (cacheEntryMUS) Unmarshal(bs []byte) (v CacheEntry, n int, err error) {
	count, n, err := varint.Int.Unmarshal(bs)
	if err != nil {
		return
	}
	// Every encoded result takes more than one byte.
	if count < 0 || count > len(bs)-n {
		return v, n, ErrBadLength
	}
	v.Results = make([]SearchResult, count)
	var n1 int
	for i := range v.Results {
		v.Results[i], n1, err = SearchResultMUS.Unmarshal(bs[n:])
		n += n1
		if err != nil {
			return
		}
	}
	v.Timestamp, n1, err = timeMUS.Unmarshal(bs[n:])
	n += n1
	return
}

func (cacheEntryMUS) Size(v CacheEntry) (size int) {
	size = varint.Int.Size(len(v.Results))
	for _, r := range v.Results {
		size += SearchResultMUS.Size(r)
	}
	return size + timeMUS.Size(v.Timestamp)
}

func (c cacheEntryMUS) Skip(bs []byte) (n int, err error) {
	_, n, err = c.Unmarshal(bs)
	return
}

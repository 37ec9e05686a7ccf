package parser

import (
	"bufio"
	"bytes"
	"errors"
	"strconv"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

type csvLoader struct{}

func (csvLoader) CanLoad(filename string) bool {
	name := strings.ToLower(filename)
	return strings.HasSuffix(name, ".csv") || strings.HasSuffix(name, ".tsv")
}

// Load reads every cell as text first, then re-detects column types once the
// padding around numeric cells ("1, 2, 9600000") is gone. Category cells and
// headers keep their spacing.
func (csvLoader) Load(content []byte, opt Options) (dataframe.DataFrame, error) {
	if len(bytes.TrimSpace(content)) == 0 {
		return dataframe.DataFrame{}, errors.New("empty file")
	}
	delim := opt.Delimiter
	if delim == 0 {
		delim = sniffDelimiter(content)
	}
	raw := dataframe.ReadCSV(bytes.NewReader(content),
		dataframe.WithDelimiter(delim),
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
	)
	if raw.Err != nil {
		return dataframe.DataFrame{}, raw.Err
	}
	records := raw.Records()
	for _, row := range records[1:] {
		for j, cell := range row {
			if t := strings.TrimSpace(cell); t != cell && numericLike(t) {
				row[j] = t
			}
		}
	}
	df := dataframe.LoadRecords(records)
	if df.Err != nil {
		return dataframe.DataFrame{}, df.Err
	}
	return df, nil
}

// numericLike reports whether a trimmed cell is a number or a missing marker.
func numericLike(s string) bool {
	switch s {
	case "", "NaN", "NA":
		return true
	}
	_, err := strconv.ParseFloat(s, 64)
	return err == nil
}

// sniffDelimiter picks the candidate that occurs most often in the header line.
func sniffDelimiter(content []byte) rune {
	sc := bufio.NewScanner(bytes.NewReader(content))
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	if !sc.Scan() {
		return ','
	}
	header := sc.Text()
	best, bestN := ',', strings.Count(header, ",")
	for _, d := range []rune{';', '\t'} {
		if n := strings.Count(header, string(d)); n > bestN {
			best, bestN = d, n
		}
	}
	return best
}

package parser

import (
	"bytes"
	"strings"

	"github.com/go-gota/gota/dataframe"
)

// jsonLoader reads an array of flat objects, one object per record.
type jsonLoader struct{}

func (jsonLoader) CanLoad(filename string) bool {
	return strings.HasSuffix(strings.ToLower(filename), ".json")
}

func (jsonLoader) Load(content []byte, _ Options) (dataframe.DataFrame, error) {
	df := dataframe.ReadJSON(bytes.NewReader(content))
	if df.Err != nil {
		return dataframe.DataFrame{}, df.Err
	}
	return df, nil
}

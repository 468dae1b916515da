package catalog

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadCSV(t *testing.T) {
	in := "Title,ID,author,genre,year,bestseller,rating\n" +
		"Duna,7,Frank Herbert,Ficção Científica,1965,sim,\"4,6\"\n" +
		",8,sem título,,,,\n" +
		"Sapiens,9,Yuval Noah Harari,História,,false,4.4\n"

	books, err := ReadCSV(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, books, 2)

	assert.Equal(t, 7, books[0].ID)
	assert.Equal(t, "Duna", books[0].Title)
	assert.True(t, books[0].Bestseller)
	assert.Equal(t, 4.6, books[0].Rating)
	assert.Equal(t, 0, books[1].Year)
	assert.Equal(t, "", books[1].Description)
}

func TestReadCSV_Errors(t *testing.T) {
	tests := map[string]string{
		"bad id":     "id,title\nx,Duna\n",
		"bad year":   "id,title,year\n1,Duna,ontem\n",
		"bad rating": "id,title,rating\n1,Duna,ótimo\n",
		"bad flag":   "id,title,bestseller\n1,Duna,talvez\n",
		"empty":      "",
	}
	for name, in := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := ReadCSV(strings.NewReader(in))
			assert.Error(t, err)
		})
	}
}

func TestWriteCSV_ReadBack(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sampleBooks()))

	books, err := ReadCSV(&buf)
	require.NoError(t, err)
	assert.Equal(t, sampleBooks(), books)
}

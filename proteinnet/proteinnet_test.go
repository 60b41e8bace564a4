package proteinnet

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const records = `[ID]
2L0E_1_A
[PRIMARY]
AKKKDNLLFGSIISAVDPVAVLAVFEEIHKKKA
[EVOLUTIONARY]
0.1 0.2
[MASK]
-+++++++++++++++++++++++++++++++-

[ID]
1abc_2
[PRIMARY]
MKV
[MASK]
+++

[ID]
4jrn_1_B
[PRIMARY]
GAHM
[MASK]
--++
`

func readAll(Te *testing.T, in string) ([]*Record, error) {
	results := make(chan *Record)
	errc := make(chan error, 1)
	go func() { errc <- ReadRecords(context.Background(), strings.NewReader(in), results) }()
	var ret []*Record
	for r := range results {
		ret = append(ret, r)
	}
	return ret, <-errc
}

func TestReadRecords(Te *testing.T) {
	recs, err := readAll(Te, records)
	require.NoError(Te, err)
	require.Len(Te, recs, 2)
	assert.Equal(Te, &Record{
		StructureID: "2l0e",
		ModelID:     1,
		ChainID:     "A",
		Primary:     "AKKKDNLLFGSIISAVDPVAVLAVFEEIHKKKA",
		Mask:        "-+++++++++++++++++++++++++++++++-",
	}, recs[0])
	//the last record has no blank line after it
	assert.Equal(Te, "4jrn", recs[1].StructureID)
	assert.Equal(Te, "--++", recs[1].Mask)
}

func TestReadRecordsErrors(Te *testing.T) {
	_, err := readAll(Te, "[ID]\n1abc_1_A\n[PRIMARY]\nMKV\n[MASK]\n++\n\n")
	require.Error(Te, err)
	assert.Contains(Te, err.Error(), "mask length")

	_, err = readAll(Te, "[ID]\n1abc_x_A\n")
	require.Error(Te, err)
	assert.Contains(Te, err.Error(), "model ID")

	_, err = readAll(Te, "[ID]\n1_2_3_4\n")
	require.Error(Te, err)

	_, err = readAll(Te, "[ID]\n1abc_1_A\n[PRIMARY]")
	require.Error(Te, err)
	assert.Contains(Te, err.Error(), "expected primary sequence")
}

func TestReadRecordsStopped(Te *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	results := make(chan *Record)
	err := ReadRecords(ctx, strings.NewReader(records), results)
	assert.Equal(Te, ErrStopped, err)
	_, open := <-results
	assert.False(Te, open)
}

func TestFind(Te *testing.T) {
	rec, err := Find(context.Background(), strings.NewReader(records), "4JRN", 1, "B")
	require.NoError(Te, err)
	require.NotNil(Te, rec)
	assert.Equal(Te, "GAHM", rec.Primary)

	rec, err = Find(context.Background(), strings.NewReader(records), "9xyz", 1, "A")
	require.NoError(Te, err)
	assert.Nil(Te, rec)
}

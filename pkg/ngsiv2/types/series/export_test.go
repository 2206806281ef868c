package series

import (
	"bytes"
	"testing"

	"github.com/matryer/is"
	"github.com/xuri/excelize/v2"
)

func TestTable(t *testing.T) {
	is := is.New(t)
	s, err := FromEntityQueryResult(mkEntityQueryResult())
	is.NoErr(err)

	table := s.Table()

	is.Equal(len(table), 4)
	is.Equal(table[0], []string{"index", "direction", "speed"})
	is.Equal(table[1], []string{"2022-03-28T18:03:18.923Z", "S", "1.308673138"})
}

func TestTablePadsShortColumns(t *testing.T) {
	is := is.New(t)
	s, err := FromEntityQueryResult(map[string]any{
		"index": rawTimeIndex,
		"attributes": []any{
			map[string]any{"attrName": "speed", "values": []any{1.5}},
		},
	})
	is.NoErr(err)

	table := s.Table()

	is.Equal(table[1][1], "1.5")
	is.Equal(table[2][1], "")
	is.Equal(table[3][1], "")
}

func TestWriteCSV(t *testing.T) {
	is := is.New(t)
	s, err := FromEntityQueryResult(mkEntityQueryResult())
	is.NoErr(err)

	var buf bytes.Buffer
	is.NoErr(s.WriteCSV(&buf))

	is.Equal(buf.String(), `index,direction,speed
2022-03-28T18:03:18.923Z,S,1.308673138
2022-03-28T18:03:20.458Z,N,1.935175709
2022-03-28T18:03:22.011Z,N,1.451720504
`)
}

func TestWriteXLSX(t *testing.T) {
	is := is.New(t)
	s, err := FromEntityQueryResult(mkEntityQueryResult())
	is.NoErr(err)

	var buf bytes.Buffer
	is.NoErr(s.WriteXLSX(&buf))

	f, err := excelize.OpenReader(&buf)
	is.NoErr(err)
	defer f.Close()

	header, err := f.GetCellValue("BotSeries", "A1")
	is.NoErr(err)
	is.Equal(header, "index")

	speed, err := f.GetCellValue("BotSeries", "C2")
	is.NoErr(err)
	is.Equal(speed, "1.308673138")
}

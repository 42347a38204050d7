package ledger

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleHOCR = `<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE html PUBLIC "-//W3C//DTD XHTML 1.0 Transitional//EN" "http://www.w3.org/TR/xhtml1/DTD/xhtml1-transitional.dtd">
<html xmlns="http://www.w3.org/1999/xhtml" xml:lang="en" lang="en">
<head>
  <title></title>
  <meta http-equiv="Content-Type" content="text/html;charset=utf-8" />
  <meta name='ocr-system' content='tesseract 5.3.0' />
</head>
<body>
  <div class='ocr_page' id='page_1' title='image "p28.png"; bbox 0 0 2550 3300; ppageno 27'>
    <div class='ocr_carea' id='block_1_1' title="bbox 10 100 900 200">
      <p class='ocr_par' id='par_1_1' title="bbox 10 100 900 200">
        <span class='ocr_line' id='line_1_1' title="bbox 10 100 90 120; baseline 0 -4">
          <span class='ocrx_word' id='word_1_1' title='bbox 10 100 90 120; x_wconf 96'>Cattle:</span>
        </span>
        <span class='ocr_line' id='line_1_2' title="bbox 50 110 420 128">
          <span class='ocrx_word' id='word_1_2' title='bbox 50 110 130 128; x_wconf 90'>Weighing</span>
          <span class='ocrx_word' id='word_1_3' title='bbox 140 110 200 128; x_wconf 80'>less</span>
        </span>
        <span class='ocr_line' id='line_1_3'>
          <span class='ocrx_word' id='word_1_4' title='bbox 1200 104 1240 125; x_wconf 70'>701</span>
        </span>
        <span class='ocr_line' id='line_1_4'>
          <span class='ocrx_word' id='word_1_5'>orphan</span>
        </span>
      </p>
    </div>
  </div>
  <div class='ocr_page' id='page_2' title='bbox 0 0 2550 3300'>
    <span class='ocr_line' id='line_2_1' title="bbox 10 300 90 320">
      <span class='ocrx_word' id='word_2_1' title='bbox 10 300 90 320; x_wconf 50'>Sheep</span>
    </span>
  </div>
</body>
</html>`

func TestParseHOCR(t *testing.T) {
	records, err := ParseHOCR([]byte(sampleHOCR))
	require.NoError(t, err)
	require.Len(t, records, 4)

	assert.Equal(t, "Cattle:", records[0].Text)
	assert.Equal(t, 28, records[0].Page)
	assert.Equal(t, NewRect(10, 100, 90, 120), records[0].Box)
	assert.InDelta(t, 0.96, records[0].Confidence, 1e-9)

	assert.Equal(t, "Weighing less", records[1].Text)
	assert.InDelta(t, 0.85, records[1].Confidence, 1e-9)

	// no line bbox: falls back to the word boxes
	assert.Equal(t, "701", records[2].Text)
	assert.Equal(t, NewRect(1200, 104, 1240, 125), records[2].Box)

	// second page has no ppageno and is numbered by order
	assert.Equal(t, "Sheep", records[3].Text)
	assert.Equal(t, 2, records[3].Page)
}

func TestParseHOCRNoPages(t *testing.T) {
	_, err := ParseHOCR([]byte("<html><body><p>nothing</p></body></html>"))
	assert.ErrorIs(t, err, ErrEmptyInput)
}

func TestDecodeHOCR(t *testing.T) {
	doc := func(charset string, body ...byte) []byte {
		head := `<meta http-equiv="Content-Type" content="text/html; charset=` + charset + `" />`
		return append([]byte(head), body...)
	}
	tests := []struct {
		name    string
		data    []byte
		want    string
		wantErr bool
	}{
		{name: "windows-1252 quotes", data: doc("windows-1252", 0x93, 'A', 0x94, ' ', 0x80), want: "\u201cA\u201d \u20ac"},
		{name: "latin-1", data: doc("ISO-8859-1", 'N', 0xba), want: "N\u00ba"},
		{name: "latin-9 euro", data: doc("iso-8859-15", 0xa4), want: "\u20ac"},
		{name: "utf-8 untouched", data: doc("utf-8", 0xc2, 0xa2), want: "\u00a2"},
		{name: "unknown charset", data: doc("koi8-r", 'x'), wantErr: true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := decodeHOCR(tc.data)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			_, body, found := strings.Cut(string(got), "/>")
			require.True(t, found)
			assert.Equal(t, tc.want, body)
		})
	}
}

func TestParseTitle(t *testing.T) {
	props := parseTitle("bbox 100 200 300 400; x_wconf 95")
	assert.Equal(t, []string{"100", "200", "300", "400"}, props["bbox"])
	assert.Equal(t, []string{"95"}, props["x_wconf"])
}

func TestDetect(t *testing.T) {
	assert.Equal(t, FormatHOCR, Detect([]byte(sampleHOCR)))
	assert.Equal(t, FormatPDF, Detect([]byte("%PDF-1.7\n%\xe2\xe3\xcf\xd3\n1 0 obj\n")))
	assert.Equal(t, FormatDocAIJSON, Detect([]byte(`{"text":"Cattle:","pages":[]}`)))
	assert.Equal(t, FormatCSV, Detect([]byte(wordCSV)))
}

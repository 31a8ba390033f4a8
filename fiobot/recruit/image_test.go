package recruit

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/image/font/gofont/goregular"
)

func testRenderer(t *testing.T) *ImageRenderer {
	t.Helper()
	r, err := NewImageRendererFromFontData(goregular.TTF)
	assert.NoError(t, err)
	return r
}

func TestNewImageRendererInvalidFont(t *testing.T) {
	_, err := NewImageRendererFromFontData([]byte("definitely not a font"))
	assert.Error(t, err)

	_, err = NewImageRenderer("/no/such/font.ttf")
	assert.Error(t, err)
}

func TestRenderProducesPNG(t *testing.T) {
	r := testRenderer(t)

	results := []Combination{
		{
			Tags:      []string{"高级资深干员"},
			Operators: []MatchedOperator{{Name: "六星近卫", Rarity: 5}},
			MinRarity: 5,
		},
		{
			Tags: []string{"资深干员", "输出"},
			Operators: []MatchedOperator{
				{Name: "五星近卫", Rarity: 4},
				{Name: "四星狙击", Rarity: 3},
			},
			MinRarity: 3,
		},
	}

	data, err := r.Render([]string{"高级资深干员", "资深干员", "输出"}, results)
	assert.NoError(t, err)
	assert.NotEmpty(t, data)

	img, err := png.Decode(bytes.NewReader(data))
	assert.NoError(t, err)
	assert.Equal(t, imgWidth, img.Bounds().Dx())
	assert.Greater(t, img.Bounds().Dy(), 0)
}

func TestRenderDeterministic(t *testing.T) {
	r := testRenderer(t)

	results := []Combination{
		{
			Tags:      []string{"支援机械"},
			Operators: []MatchedOperator{{Name: "一星小车", Rarity: 0}},
			MinRarity: 0,
		},
	}

	first, err := r.Render([]string{"支援机械"}, results)
	assert.NoError(t, err)
	second, err := r.Render([]string{"支援机械"}, results)
	assert.NoError(t, err)
	assert.Equal(t, first, second)
}

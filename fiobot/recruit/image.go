package recruit

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io/ioutil"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// 画布配色
var (
	bgColor     = color.RGBA{30, 30, 35, 255}    // 深灰背景
	cardBgColor = color.RGBA{45, 45, 52, 255}    // 卡片背景
	borderColor = color.RGBA{70, 70, 80, 255}    // 卡片边框
	textWhite   = color.RGBA{240, 240, 240, 255} //
	textGray    = color.RGBA{170, 170, 180, 255} //
	textTitle   = color.RGBA{255, 200, 80, 255}  // 标题金色
	footerColor = color.RGBA{100, 100, 110, 255} //
)

// rarityColors 稀有度颜色（0-based）
var rarityColors = map[int]color.RGBA{
	0: {150, 150, 150, 255}, // 1★ 灰色
	1: {200, 200, 200, 255}, // 2★ 白色
	2: {100, 180, 255, 255}, // 3★ 蓝色
	3: {200, 150, 255, 255}, // 4★ 紫色
	4: {255, 200, 60, 255},  // 5★ 金色
	5: {255, 120, 50, 255},  // 6★ 橙色
}

// minStarColors 保底星级（1-based）高亮色
var minStarColors = map[int]color.RGBA{
	1: {150, 150, 150, 255},
	4: {200, 150, 255, 255},
	5: {255, 200, 60, 255},
	6: {255, 120, 50, 255},
}

// 布局常量
const (
	imgWidth    = 520
	imgPadding  = 30
	cardPadding = 16
	cardGap     = 12
)

// ImageRenderer 将公招组合结果绘制为PNG图片。
// 字体需要支持中文，通常配置为系统内的黑体/雅黑之类的ttf/ttc路径。
type ImageRenderer struct {
	fontTitle font.Face
	fontTag   font.Face
	fontBody  font.Face
	fontSmall font.Face
}

// NewImageRenderer 从字体文件创建图片渲染器
func NewImageRenderer(fontPath string) (*ImageRenderer, error) {
	fontData, err := ioutil.ReadFile(fontPath)
	if err != nil {
		return nil, errors.Wrapf(err, "read font file %v", fontPath)
	}
	return NewImageRendererFromFontData(fontData)
}

// NewImageRendererFromFontData 从字体数据创建图片渲染器
func NewImageRendererFromFontData(fontData []byte) (*ImageRenderer, error) {
	parsedFont, err := opentype.Parse(fontData)
	if err != nil {
		return nil, errors.Wrap(err, "parse font")
	}

	r := &ImageRenderer{}
	for _, item := range []struct {
		face *font.Face
		size float64
	}{
		{&r.fontTitle, 22},
		{&r.fontTag, 18},
		{&r.fontBody, 16},
		{&r.fontSmall, 14},
	} {
		face, err := opentype.NewFace(parsedFont, &opentype.FaceOptions{
			Size:    item.size,
			DPI:     72,
			Hinting: font.HintingFull,
		})
		if err != nil {
			return nil, errors.Wrap(err, "create font face")
		}
		*item.face = face
	}

	return r, nil
}

// Render 将公招结果绘制为PNG图片。
//
// 先按内容预计算总高度再创建画布绘制（两遍布局），避免内容被裁掉。
// 颜色和左侧色条完全由稀有度/保底星级查表得出，同样的输入产出同样的图。
func (r *ImageRenderer) Render(tags []string, results []Combination) ([]byte, error) {
	// ===== 预计算总高度 =====
	height := imgPadding
	height += 28 + 10 // 标题行
	height += 22 + 16 // 识别标签行

	if len(results) == 0 {
		height += 40 // 空结果提示
	} else {
		for _, res := range results {
			height += cardHeight(&res) + cardGap
		}
	}
	height += 18 + imgPadding // 底部签名 + 留白

	// ===== 创建画布 =====
	img := image.NewRGBA(image.Rect(0, 0, imgWidth, height))
	draw.Draw(img, img.Bounds(), image.NewUniform(bgColor), image.Point{}, draw.Src)

	cy := imgPadding

	// ===== 标题 =====
	r.drawText(img, imgPadding, cy+22, "明日方舟公招分析", r.fontTitle, textTitle)
	cy += 28 + 10

	// ===== 识别标签 =====
	r.drawText(img, imgPadding, cy+18, "识别标签："+strings.Join(tags, "、"), r.fontTag, textGray)
	cy += 22 + 16

	// ===== 空结果 =====
	if len(results) == 0 {
		r.drawText(img, imgPadding, cy+16, "没有找到有价值的标签组合喵~", r.fontBody, textGray)
		return encodePNG(img)
	}

	// ===== 组合卡片 =====
	contentWidth := imgWidth - imgPadding*2

	for i := range results {
		res := &results[i]
		minStar := res.MinRarity + 1
		cardH := cardHeight(res)

		// 卡片背景 + 边框
		fillRect(img, imgPadding, cy, imgPadding+contentWidth, cy+cardH, cardBgColor)
		strokeRect(img, imgPadding, cy, imgPadding+contentWidth, cy+cardH, borderColor)

		// 左侧色条
		barColor, ok := minStarColors[minStar]
		if !ok {
			barColor = color.RGBA{100, 180, 255, 255}
		}
		fillRect(img, imgPadding, cy+4, imgPadding+4, cy+cardH-4, barColor)

		ix := imgPadding + cardPadding
		iy := cy + cardPadding

		// 保底星级标记（右侧）
		starLabel := fmt.Sprintf("保底%d★", minStar)
		starColor, ok := minStarColors[minStar]
		if !ok {
			starColor = textWhite
		}
		starW := r.measure(starLabel, r.fontSmall)
		r.drawText(img, imgPadding+contentWidth-cardPadding-starW, iy+2+12, starLabel, r.fontSmall, starColor)

		// 标签组合名（左侧）
		r.drawText(img, ix, iy+18, "【"+strings.Join(res.Tags, " + ")+"】", r.fontTag, textWhite)
		iy += 24 + 8

		// 干员列表
		for _, op := range res.Operators {
			opColor, ok := rarityColors[op.Rarity]
			if !ok {
				opColor = textWhite
			}
			starText := RarityDisplay(op.Rarity)
			r.drawText(img, ix, iy+16, starText, r.fontBody, opColor)
			starTextW := r.measure(starText+" ", r.fontBody)
			r.drawText(img, ix+starTextW, iy+16, op.Name, r.fontBody, opColor)
			iy += 22
		}

		cy += cardH + cardGap
	}

	// ===== 底部签名 =====
	footer := "Generated by fiobot"
	footerW := r.measure(footer, r.fontSmall)
	r.drawText(img, (imgWidth-footerW)/2, cy+14, footer, r.fontSmall, footerColor)

	return encodePNG(img)
}

// cardHeight 单个组合卡片的高度：上下内边距 + 标签行 + 每个干员一行
func cardHeight(res *Combination) int {
	return cardPadding + 24 + 8 + len(res.Operators)*22 + cardPadding
}

func (r *ImageRenderer) drawText(img *image.RGBA, x, y int, text string, face font.Face, c color.RGBA) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(c),
		Face: face,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(text)
}

func (r *ImageRenderer) measure(text string, face font.Face) int {
	return font.MeasureString(face, text).Ceil()
}

func fillRect(img *image.RGBA, x0, y0, x1, y1 int, c color.RGBA) {
	draw.Draw(img, image.Rect(x0, y0, x1, y1), image.NewUniform(c), image.Point{}, draw.Src)
}

func strokeRect(img *image.RGBA, x0, y0, x1, y1 int, c color.RGBA) {
	fillRect(img, x0, y0, x1, y0+1, c)
	fillRect(img, x0, y1-1, x1, y1, c)
	fillRect(img, x0, y0, x0+1, y1, c)
	fillRect(img, x1-1, y0, x1, y1, c)
}

func encodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, errors.Wrap(err, "encode png")
	}
	return buf.Bytes(), nil
}

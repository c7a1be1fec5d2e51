// Package report renders aggregated results as PNG images for Discord.
package report

import (
	"bytes"
	"fmt"
	"image/color"
	"math"
	"strings"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/spainrp/awards/internal/services"
)

// A detailed log taller than MaxPageHeight is split into pages of
// CategoriesPerPage categories.
const (
	MaxPageHeight     = 10000
	CategoriesPerPage = 6
)

var (
	gold       = color.RGBA{0xD4, 0xAF, 0x37, 0xFF}
	brightGold = color.RGBA{0xFF, 0xD7, 0x00, 0xFF}
	blurple    = color.RGBA{0x72, 0x89, 0xDA, 0xFF}
	white      = color.White
	muted      = color.RGBA{0xBB, 0xBB, 0xBB, 0xFF}
	dim        = color.RGBA{0x55, 0x55, 0x55, 0xFF}
	footerGrey = color.RGBA{0x44, 0x44, 0x44, 0xFF}
	track      = color.RGBA{0x33, 0x33, 0x33, 0xFF}
	card       = color.RGBA{0x2C, 0x2F, 0x33, 0xFF}
	cardText   = color.RGBA{0x99, 0xAA, 0xB5, 0xFF}
	bgTop      = color.RGBA{0x12, 0x12, 0x12, 0xFF}
	bgBottom   = color.RGBA{0x23, 0x27, 0x2A, 0xFF}
)

type style int

const (
	regular style = iota
	bold
	italic
)

// Renderer draws results images. It is safe for concurrent use; font faces
// are created per render.
type Renderer struct {
	eventName string
	fonts     map[style]*truetype.Font
}

// NewRenderer parses the embedded Go fonts
func NewRenderer(eventName string) (*Renderer, error) {
	fonts := make(map[style]*truetype.Font, 3)
	for s, ttf := range map[style][]byte{regular: goregular.TTF, bold: gobold.TTF, italic: goitalic.TTF} {
		f, err := truetype.Parse(ttf)
		if err != nil {
			return nil, fmt.Errorf("parse font: %w", err)
		}
		fonts[s] = f
	}
	return &Renderer{eventName: eventName, fonts: fonts}, nil
}

type canvas struct {
	*gg.Context
	r     *Renderer
	faces map[[2]int]font.Face
}

func (r *Renderer) newCanvas(w, h int) *canvas {
	c := &canvas{Context: gg.NewContext(w, h), r: r, faces: make(map[[2]int]font.Face)}
	grad := gg.NewLinearGradient(0, 0, 0, float64(h))
	grad.AddColorStop(0, bgTop)
	grad.AddColorStop(1, bgBottom)
	c.SetFillStyle(grad)
	c.DrawRectangle(0, 0, float64(w), float64(h))
	c.Fill()
	return c
}

func (c *canvas) font(s style, size int) {
	key := [2]int{int(s), size}
	face, ok := c.faces[key]
	if !ok {
		face = truetype.NewFace(c.r.fonts[s], &truetype.Options{Size: float64(size)})
		c.faces[key] = face
	}
	c.SetFontFace(face)
}

func (c *canvas) header(title, subtitle string) {
	w := float64(c.Width())
	c.SetColor(gold)
	c.font(bold, 50)
	c.DrawStringAnchored(title, w/2, 80, 0.5, 0)
	c.SetColor(muted)
	c.font(regular, 30)
	c.DrawStringAnchored(subtitle, w/2, 130, 0.5, 0)
}

func (c *canvas) footer() {
	c.SetColor(footerGrey)
	c.font(italic, 18)
	c.DrawStringAnchored(c.r.eventName+" • Generado automáticamente", float64(c.Width())/2, float64(c.Height())-20, 0.5, 0)
}

func (c *canvas) png() ([]byte, error) {
	var buf bytes.Buffer
	if err := c.EncodePNG(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

const (
	summaryWidth   = 1000
	summaryHeader  = 160
	categoryHeight = 60
	candidateRow   = 65
	categoryGap    = 40
)

// Summary draws one bar chart per category
func (r *Renderer) Summary(res *services.Results) ([]byte, error) {
	height := summaryHeader + 50
	for _, cat := range res.Categories {
		height += categoryHeight + candidateRow*len(cat.Candidates) + categoryGap
	}

	c := r.newCanvas(summaryWidth, height)
	c.header("Resultados Oficiales", fmt.Sprintf("Participación: %d votos", res.TotalVotes))

	y := float64(summaryHeader + 50)
	for _, cat := range res.Categories {
		c.SetColor(white)
		c.font(bold, 32)
		c.DrawString(cat.Title, 40, y)

		c.SetColor(gold)
		c.SetLineWidth(3)
		c.DrawLine(40, y+15, summaryWidth-40, y+15)
		c.Stroke()
		y += categoryHeight

		for i, cand := range cat.Candidates {
			c.bar(i, cand, 40, y, summaryWidth-80)
			y += candidateRow
		}
		y += 20
	}

	c.footer()
	return c.png()
}

func rankLabel(i int) string {
	if i < 3 {
		return fmt.Sprintf("#%d", i+1)
	}
	return ""
}

func (c *canvas) bar(index int, cand services.CandidateResult, x, y, w float64) {
	const labelW, valueW = 350, 170
	barW := w - labelW - valueW

	c.font(bold, 28)
	if index == 0 {
		c.SetColor(brightGold)
	} else {
		c.SetColor(white)
	}
	c.DrawString(strings.TrimSpace(rankLabel(index)+" "+cand.Label), x, y)

	c.SetColor(track)
	c.DrawRectangle(x+labelW, y-25, barW, 30)
	c.Fill()
	if fill := barW * math.Min(1, cand.Percent); fill > 0 {
		if index == 0 {
			c.SetColor(gold)
		} else {
			c.SetColor(blurple)
		}
		c.DrawRectangle(x+labelW, y-25, fill, 30)
		c.Fill()
	}

	c.SetColor(white)
	c.DrawStringAnchored(fmt.Sprintf("%.1f%% (%d)", cand.Percent*100, cand.Count), x+w, y, 1, 0)
}

const (
	detailWidth  = 1200
	detailHeader = 180
	detailPad    = 40
	cardW        = 350
	cardH        = 70
	cardGap      = 15
	columns      = 3
)

func candidateBlock(c services.CandidateResult) int {
	rows := int(math.Ceil(float64(len(c.Voters)) / columns))
	if rows == 0 {
		rows = 1
	}
	return 60 + rows*(cardH+cardGap) + 20
}

func detailHeight(cats []services.CategoryResult) int {
	h := 0
	for _, cat := range cats {
		h += 100
		for _, cand := range cat.Candidates {
			h += candidateBlock(cand)
		}
		h += 40
	}
	return h
}

// Detailed draws voter cards per candidate. res must come from a detailed
// aggregation.
func (r *Renderer) Detailed(res *services.Results) ([][]byte, error) {
	cats := res.Categories
	if total := detailHeight(cats); total < MaxPageHeight {
		page, err := r.detailPage(cats, detailHeader+detailPad+total, 1, 1)
		if err != nil {
			return nil, err
		}
		return [][]byte{page}, nil
	}

	pages := (len(cats) + CategoriesPerPage - 1) / CategoriesPerPage
	out := make([][]byte, 0, pages)
	for i := 0; i < len(cats); i += CategoriesPerPage {
		chunk := cats[i:min(i+CategoriesPerPage, len(cats))]
		height := detailHeader + 50 + 100 + detailHeight(chunk)
		page, err := r.detailPage(chunk, height, i/CategoriesPerPage+1, pages)
		if err != nil {
			return nil, err
		}
		out = append(out, page)
	}
	return out, nil
}

func (r *Renderer) detailPage(cats []services.CategoryResult, height, page, pages int) ([]byte, error) {
	c := r.newCanvas(detailWidth, height)
	c.header("Registro Detallado de Votos", fmt.Sprintf("Página %d de %d • %s", page, pages, r.eventName))

	y := float64(detailHeader + detailPad)
	for _, cat := range cats {
		c.SetColor(gold)
		c.font(bold, 36)
		c.DrawString(cat.Title, detailPad, y)
		y += 60

		for _, cand := range cat.Candidates {
			c.SetColor(white)
			c.font(bold, 28)
			c.DrawString(fmt.Sprintf("%s (%d votos)", cand.Label, cand.Count), detailPad+20, y)
			y += 40

			x := float64(detailPad + 20)
			if len(cand.Voters) == 0 {
				c.SetColor(dim)
				c.font(italic, 20)
				c.DrawString("Sin votos registrados.", x, y)
				y += 40
			} else {
				for i, v := range cand.Voters {
					c.voterCard(v, x, y)
					x += cardW + cardGap
					if (i+1)%columns == 0 {
						x = detailPad + 20
						y += cardH + cardGap
					}
				}
				if len(cand.Voters)%columns != 0 {
					y += cardH + cardGap
				}
			}
			y += 20
		}
		y += 40
	}

	c.footer()
	return c.png()
}

func (c *canvas) voterCard(v services.Voter, x, y float64) {
	c.SetColor(card)
	c.DrawRoundedRectangle(x, y, cardW, cardH, 10)
	c.Fill()

	c.SetColor(blurple)
	c.DrawCircle(x+35, y+35, 25)
	c.Fill()

	name := v.Username
	if name == "" {
		name = "Usuario"
	}
	c.SetColor(white)
	c.font(bold, 22)
	c.DrawStringAnchored(initial(name), x+35, y+35, 0.5, 0.35)

	c.font(bold, 18)
	c.DrawString(name, x+70, y+30)
	c.SetColor(cardText)
	c.font(regular, 16)
	c.DrawString("Roblox: "+v.RobloxUser, x+70, y+55)
}

func initial(name string) string {
	for _, r := range name {
		return string(r)
	}
	return "?"
}

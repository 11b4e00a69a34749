package domain

import (
	"fmt"
	"time"
)

type CreativeFormat string

const (
	CreativeFormatBanner CreativeFormat = "banner"
	CreativeFormatText   CreativeFormat = "text"
	CreativeFormatNative CreativeFormat = "native"
)

type Creative struct {
	ID            string         `json:"id"`
	ProjectID     string         `json:"project_id"`
	OfferID       string         `json:"offer_id"`
	Name          string         `json:"name"`
	ClickURL      string         `json:"click_url"`
	ImageURL      *string        `json:"image_url"`
	AltText       *string        `json:"alt_text"`
	Width         *int           `json:"width"`
	Height        *int           `json:"height"`
	Size          *string        `json:"size"`
	Format        CreativeFormat `json:"format"`
	IsActive      bool           `json:"is_active"`
	StartDate     *time.Time     `json:"start_date"`
	EndDate       *time.Time     `json:"end_date"`
	OfferCategory *string        `json:"offer_category"`
}

// DerivedSize retorna o tamanho "LxA" do criativo.
// O banco grava a coluna gerada; quando ela não vier preenchida calculamos aqui.
func (c *Creative) DerivedSize() string {
	if c.Size != nil && *c.Size != "" {
		return *c.Size
	}
	if c.Width != nil && c.Height != nil {
		return fmt.Sprintf("%dx%d", *c.Width, *c.Height)
	}
	return ""
}

// ToServe retorna apenas os campos públicos do criativo
func (c *Creative) ToServe() *ServeCreative {
	return &ServeCreative{
		ClickURL: c.ClickURL,
		ImageURL: c.ImageURL,
		AltText:  c.AltText,
		Width:    c.Width,
		Height:   c.Height,
		Format:   c.Format,
	}
}

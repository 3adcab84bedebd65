// Package settings manages the homepage settings document: a singleton JSON
// blob describing the editable landing-page content.
//
// Media-bearing fields (hero background image/video, hero logo, about image)
// are stored as object-store keys, never as signed URLs — signed URLs expire
// and would break the persisted document. Legacy documents that still embed
// absolute URLs are migrated to keys on read.
package settings

import (
	"strings"

	"github.com/ptnbk2401/quy-do-official/internal/storage"
)

// Hero configures the landing page hero section.
type Hero struct {
	BackgroundImage string `json:"backgroundImage"`
	BackgroundVideo string `json:"backgroundVideo"`
	Logo            string `json:"logo"`
	Title           string `json:"title"`
	Subtitle        string `json:"subtitle"`
	CTAText         string `json:"ctaText"`
	CTALink         string `json:"ctaLink"`
}

// About configures the about section.
type About struct {
	Image       string `json:"image"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Highlights configures the highlights strip.
type Highlights struct {
	Enabled bool `json:"enabled"`
	Limit   int  `json:"limit"`
}

// Social holds the social profile links. These are external URLs, not
// storage references, and are never migrated.
type Social struct {
	TikTok    string `json:"tiktok"`
	YouTube   string `json:"youtube"`
	Facebook  string `json:"facebook"`
	Instagram string `json:"instagram"`
}

// Settings is the homepage settings document.
type Settings struct {
	Hero       Hero       `json:"hero"`
	About      About      `json:"about"`
	Highlights Highlights `json:"highlights"`
	Social     Social     `json:"social"`
}

// Defaults returns the settings used when no document has been saved yet.
// A missing document must never break the landing page.
func Defaults() Settings {
	return Settings{
		Hero: Hero{
			BackgroundImage: "/images/old-trafford-hero.jpg",
			BackgroundVideo: "",
			Logo:            "",
			Title:           "Quỷ Đỏ Official",
			Subtitle:        "Trái tim Quỷ Đỏ - Nơi lưu giữ khoảnh khắc đáng nhớ của Manchester United",
			CTAText:         "Khám phá Media Hub",
			CTALink:         "/gallery",
		},
		About: About{
			Image:       "/images/fans-collage.jpeg",
			Title:       "Câu chuyện của chúng tôi",
			Description: "Quỷ Đỏ Official ra đời từ niềm đam mê bất tận với Manchester United – nơi người hâm mộ cùng chia sẻ và lưu giữ những khoảnh khắc đáng nhớ nhất.",
		},
		Highlights: Highlights{
			Enabled: true,
			Limit:   6,
		},
		Social: Social{
			TikTok:    "https://www.tiktok.com/@united_insights",
			YouTube:   "https://youtube.com/@quydoofficial",
			Facebook:  "https://www.facebook.com/share/176i3fyvkT/",
			Instagram: "https://www.instagram.com/man_utd.vn",
		},
	}
}

// Migrate rewrites legacy absolute storage URLs in the media fields to bare
// keys. Idempotent: migrating a migrated document is a no-op.
func Migrate(s Settings) Settings {
	s.Hero.BackgroundImage = migrateField(s.Hero.BackgroundImage)
	s.Hero.BackgroundVideo = migrateField(s.Hero.BackgroundVideo)
	s.Hero.Logo = migrateField(s.Hero.Logo)
	s.About.Image = migrateField(s.About.Image)
	return s
}

func migrateField(v string) string {
	if !strings.HasPrefix(v, "http") {
		return v
	}
	return storage.ExtractKey(v)
}

// ResolveForDisplay returns a copy with every key-valued media field
// replaced by a public URL. Homepage media is intentionally public-readable:
// the landing page itself is not access-controlled. Absolute URLs and
// site-relative asset paths pass through unchanged.
func ResolveForDisplay(s Settings, publicURL func(key string) string) Settings {
	s.Hero.BackgroundImage = resolveField(s.Hero.BackgroundImage, publicURL)
	s.Hero.BackgroundVideo = resolveField(s.Hero.BackgroundVideo, publicURL)
	s.Hero.Logo = resolveField(s.Hero.Logo, publicURL)
	s.About.Image = resolveField(s.About.Image, publicURL)
	return s
}

func resolveField(v string, publicURL func(key string) string) string {
	if !isStoredKey(v) {
		return v
	}
	return publicURL(v)
}

// isStoredKey reports whether the value is an object-store key rather than
// an absolute URL or a site-relative asset path.
func isStoredKey(v string) bool {
	return v != "" && !strings.HasPrefix(v, "http") && !strings.HasPrefix(v, "/")
}

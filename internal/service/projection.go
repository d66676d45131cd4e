package service

import (
	"bytes"
	"cmp"
	"slices"
	"strings"

	"github.com/biolink/internal/db"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

var (
	bioMarkdown = goldmark.New(
		goldmark.WithExtensions(extension.GFM, extension.Linkify),
		goldmark.WithRendererOptions(html.WithHardWraps(), html.WithXHTML()),
	)
	bioSanitizer = bluemonday.UGCPolicy()
)

// PublicProfile is the unauthenticated view of a profile. It carries no credential material.
type PublicProfile struct {
	Username        string         `json:"username"`
	DisplayName     string         `json:"displayName"`
	Bio             string         `json:"bio"`
	BioHTML         string         `json:"bioHtml"`
	Avatar          string         `json:"avatar"`
	CoverImage      string         `json:"coverImage"`
	Theme           db.Theme       `json:"theme"`
	Links           []PublicLink   `json:"links"`
	Socials         []PublicSocial `json:"socials"`
	MetaTitle       string         `json:"metaTitle"`
	MetaDescription string         `json:"metaDescription"`
}

// PublicLink drops the bookkeeping fields of db.Link.
type PublicLink struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	URL   string `json:"url"`
	Icon  string `json:"icon"`
}

// PublicSocial 为公开页展示的社交图标
type PublicSocial struct {
	ID       string `json:"id"`
	Platform string `json:"platform"`
	URL      string `json:"url"`
}

// Project derives the public view: inactive links and socials are removed and
// links are sorted by Order, ties keeping their insertion position.
func Project(profile *db.Profile) PublicProfile {
	active := make([]db.Link, 0, len(profile.Links))
	for _, link := range profile.Links {
		if link.Active {
			active = append(active, link)
		}
	}
	slices.SortStableFunc(active, func(a, b db.Link) int {
		return cmp.Or(cmp.Compare(a.Order, b.Order), cmp.Compare(a.Seq, b.Seq))
	})

	links := make([]PublicLink, 0, len(active))
	for _, link := range active {
		links = append(links, PublicLink{ID: link.ID, Title: link.Title, URL: link.URL, Icon: link.Icon})
	}

	socials := make([]PublicSocial, 0, len(profile.Socials))
	for _, social := range profile.Socials {
		if social.Active {
			socials = append(socials, PublicSocial{ID: social.ID, Platform: social.Platform, URL: social.URL})
		}
	}

	return PublicProfile{
		Username:        profile.Username,
		DisplayName:     profile.DisplayName,
		Bio:             profile.Bio,
		BioHTML:         RenderBio(profile.Bio),
		Avatar:          profile.Avatar,
		CoverImage:      profile.CoverImage,
		Theme:           profile.Theme.Data(),
		Links:           links,
		Socials:         socials,
		MetaTitle:       profile.MetaTitle,
		MetaDescription: profile.MetaDescription,
	}
}

// RenderBio converts the markdown bio into sanitized HTML.
func RenderBio(bio string) string {
	if strings.TrimSpace(bio) == "" {
		return ""
	}

	var buf bytes.Buffer
	if err := bioMarkdown.Convert([]byte(bio), &buf); err != nil {
		return bioSanitizer.Sanitize(bio)
	}
	return strings.TrimSpace(bioSanitizer.Sanitize(buf.String()))
}

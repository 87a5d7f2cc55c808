package hwpx

import (
	"encoding/xml"
	"path"
	"regexp"
	"sort"
	"strconv"

	"github.com/roboco-io/hwpkit/internal/ir"
)

// Manifest is the OPF package file (content.hpf).
type Manifest struct {
	XMLName  xml.Name       `xml:"package"`
	Metadata ManifestMeta   `xml:"metadata"`
	Items    []ManifestItem `xml:"manifest>item"`
	Spine    []SpineItem    `xml:"spine>itemref"`
}

type ManifestMeta struct {
	Title       string `xml:"title"`
	Creator     string `xml:"creator"`
	Subject     string `xml:"subject"`
	Description string `xml:"description"`
	Publisher   string `xml:"publisher"`
	Date        string `xml:"date"`
	Language    string `xml:"language"`
	Keywords    string `xml:"keywords"`
}

type ManifestItem struct {
	ID        string `xml:"id,attr"`
	Href      string `xml:"href,attr"`
	MediaType string `xml:"media-type,attr"`
}

type SpineItem struct {
	IDRef string `xml:"idref,attr"`
}

// ParseManifest decodes content.hpf.
func ParseManifest(data []byte) (*Manifest, error) {
	var m Manifest
	if err := xml.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// ToMetadata maps the OPF metadata onto IR metadata.
func (m *Manifest) ToMetadata() ir.Metadata {
	return ir.Metadata{
		Title:       m.Metadata.Title,
		Author:      m.Metadata.Creator,
		Subject:     m.Metadata.Subject,
		Description: m.Metadata.Description,
		Keywords:    m.Metadata.Keywords,
		Creator:     m.Metadata.Creator,
		Created:     m.Metadata.Date,
	}
}

var sectionName = regexp.MustCompile(`(?i)^section(\d+)\.xml$`)

// sectionNumber returns N for ".../sectionN.xml", -1 otherwise.
func sectionNumber(name string) int {
	m := sectionName.FindStringSubmatch(path.Base(name))
	if m == nil {
		return -1
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return -1
	}
	return n
}

// GetSectionPaths returns section hrefs in spine order. Spine entries that are not
// sections (header.xml) are skipped. Without a spine, manifest sections are sorted
// by section number.
func (m *Manifest) GetSectionPaths() []string {
	hrefs := make(map[string]string, len(m.Items))
	for _, item := range m.Items {
		hrefs[item.ID] = item.Href
	}

	var paths []string
	for _, ref := range m.Spine {
		if href, ok := hrefs[ref.IDRef]; ok && sectionNumber(href) >= 0 {
			paths = append(paths, href)
		}
	}
	if len(paths) > 0 {
		return paths
	}

	for _, item := range m.Items {
		if sectionNumber(item.Href) >= 0 {
			paths = append(paths, item.Href)
		}
	}
	sortSections(paths)
	return paths
}

func sortSections(paths []string) {
	sort.SliceStable(paths, func(i, j int) bool {
		return sectionNumber(paths[i]) < sectionNumber(paths[j])
	})
}

// binItems maps manifest ids to BinData hrefs.
func (m *Manifest) binItems() map[string]string {
	out := map[string]string{}
	for _, item := range m.Items {
		if path.Dir(item.Href) == "BinData" {
			out[item.ID] = item.Href
		}
	}
	return out
}

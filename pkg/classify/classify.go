// Package classify tags each OCR line of a tariff schedule with exactly one
// role: commodity number, tariff paragraph or free-text description.
//
// Classification is an ordered list of rules evaluated first-match-wins.
// Anything no rule claims is a description. A second pass promotes short
// numeric descriptions the primary rules missed to tariff paragraphs, and
// pure numbers left over as descriptions are dropped as OCR noise.
package classify

import (
	"github.com/gardar/tariffscan/pkg/ledger"
)

// Role is the single category a line is assigned to
type Role int

const (
	RoleDescription Role = iota
	RoleCommodityNumber
	RoleTariffParagraph
)

func (r Role) String() string {
	switch r {
	case RoleCommodityNumber:
		return "CommodityNumber"
	case RoleTariffParagraph:
		return "TariffParagraph"
	default:
		return "Description"
	}
}

// Line is a word record annotated with its role. Only the field matching
// Role is non-empty.
type Line struct {
	Record          ledger.WordRecord
	Role            Role
	CommodityNumber string
	TariffParagraph string
	Description     string
}

// NewLine builds a Line with the value stored in the field for role
func NewLine(rec ledger.WordRecord, role Role, value string) Line {
	l := Line{Record: rec, Role: role}
	switch role {
	case RoleCommodityNumber:
		l.CommodityNumber = value
	case RoleTariffParagraph:
		l.TariffParagraph = value
	default:
		l.Description = value
	}
	return l
}

// Page returns the 1-based page of the line
func (l Line) Page() int { return l.Record.Page }

// X returns the horizontal start of the line
func (l Line) X() float64 { return l.Record.TopLeftX() }

// TopY returns the top edge of the line
func (l Line) TopY() float64 { return l.Record.TopLeftY() }

// BottomY returns the bottom edge of the line
func (l Line) BottomY() float64 { return l.Record.BottomRightY() }

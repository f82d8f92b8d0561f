// Package catalog maps content categories to their display descriptors. The
// mapping is static and validated for completeness at startup, so a request
// can never hit a category without a descriptor.
package catalog

import (
	"fmt"

	"github.com/hunet324/expertlink/internal/models"
)

// Descriptor is the display metadata for a content category.
type Descriptor struct {
	Label string `json:"label"`
	Icon  string `json:"icon"`
	Order int    `json:"order"`
}

// AllCategories enumerates every category variant. Validate checks the
// descriptor table against this list.
var AllCategories = []models.ContentCategory{
	models.CategoryMeditation,
	models.CategoryCounseling,
	models.CategoryPsychology,
	models.CategoryWellness,
	models.CategoryNotice,
}

var descriptors = map[models.ContentCategory]Descriptor{
	models.CategoryMeditation: {Label: "Meditation", Icon: "lotus", Order: 1},
	models.CategoryCounseling: {Label: "Counseling Guide", Icon: "chat-heart", Order: 2},
	models.CategoryPsychology: {Label: "Psychology", Icon: "brain", Order: 3},
	models.CategoryWellness:   {Label: "Wellness", Icon: "leaf", Order: 4},
	models.CategoryNotice:     {Label: "Notice", Icon: "megaphone", Order: 5},
}

// Validate ensures every category variant has a descriptor. Run at startup;
// a missing entry is a programming error and should abort boot.
func Validate() error {
	for _, c := range AllCategories {
		if _, ok := descriptors[c]; !ok {
			return fmt.Errorf("content category %q has no descriptor", c)
		}
	}
	return nil
}

// Lookup returns the descriptor for a category.
func Lookup(c models.ContentCategory) (Descriptor, bool) {
	d, ok := descriptors[c]
	return d, ok
}

// IsValid reports whether c is a known category.
func IsValid(c models.ContentCategory) bool {
	_, ok := descriptors[c]
	return ok
}

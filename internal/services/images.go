package services

import (
	"fmt"
	"sort"

	"social-analytics-dashboard/internal/models"
)

// MaxImagesPerModel bounds the reference images attached to one model.
const MaxImagesPerModel = 3

// ReferenceImageSet maps brand -> model -> images. Emptied models and
// brands are removed. It is not safe for concurrent use; Session guards it.
type ReferenceImageSet struct {
	images map[string]map[string][]models.ReferenceImage
}

func NewReferenceImageSet() *ReferenceImageSet {
	return &ReferenceImageSet{images: make(map[string]map[string][]models.ReferenceImage)}
}

// Set replaces the images of one brand/model pair, like re-selecting files
// in the picker. An empty list clears the pair.
func (s *ReferenceImageSet) Set(brand, model string, images []models.ReferenceImage) error {
	if len(images) > MaxImagesPerModel {
		return &ValidationError{
			Field:   "files",
			Message: fmt.Sprintf("Maximum %d images allowed per model", MaxImagesPerModel),
		}
	}
	if len(images) == 0 {
		s.clear(brand, model)
		return nil
	}
	if s.images[brand] == nil {
		s.images[brand] = make(map[string][]models.ReferenceImage)
	}
	s.images[brand][model] = append([]models.ReferenceImage(nil), images...)
	return nil
}

// Remove drops the image at index from a brand/model pair.
func (s *ReferenceImageSet) Remove(brand, model string, index int) error {
	list := s.images[brand][model]
	if index < 0 || index >= len(list) {
		return &ValidationError{Field: "index", Message: fmt.Sprintf("No reference image %d for %s - %s", index, brand, model)}
	}
	list = append(list[:index:index], list[index+1:]...)
	if len(list) == 0 {
		s.clear(brand, model)
		return nil
	}
	s.images[brand][model] = list
	return nil
}

func (s *ReferenceImageSet) clear(brand, model string) {
	delete(s.images[brand], model)
	if len(s.images[brand]) == 0 {
		delete(s.images, brand)
	}
}

// Images returns the images of one pair.
func (s *ReferenceImageSet) Images(brand, model string) []models.ReferenceImage {
	return s.images[brand][model]
}

// Brands returns brand names in sorted order.
func (s *ReferenceImageSet) Brands() []string {
	return sortedKeys(s.images)
}

// Models returns the models of a brand in sorted order.
func (s *ReferenceImageSet) Models(brand string) []string {
	return sortedKeys(s.images[brand])
}

// Counts reports the number of images per brand/model.
func (s *ReferenceImageSet) Counts() map[string]map[string]int {
	counts := make(map[string]map[string]int, len(s.images))
	for brand, byModel := range s.images {
		counts[brand] = make(map[string]int, len(byModel))
		for model, list := range byModel {
			counts[brand][model] = len(list)
		}
	}
	return counts
}

func (s *ReferenceImageSet) Len() int {
	n := 0
	for _, byModel := range s.images {
		for _, list := range byModel {
			n += len(list)
		}
	}
	return n
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

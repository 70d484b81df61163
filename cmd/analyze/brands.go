package main

import (
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"
	"social-analytics-dashboard/internal/models"
	"social-analytics-dashboard/internal/services"
)

// BrandFile is the YAML document read by the analyze command.
type BrandFile struct {
	Brands    []BrandEntry `yaml:"brands"`
	StartDate string       `yaml:"start_date"`
	EndDate   string       `yaml:"end_date"`

	dir string
}

// BrandEntry is a brand plus optional reference image paths per model.
// Paths are relative to the brand file.
type BrandEntry struct {
	models.BrandInput `yaml:",inline"`
	ReferenceImages   map[string][]string `yaml:"reference_images"`
}

func LoadBrandFile(path string) (*BrandFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read brand file: %w", err)
	}

	var file BrandFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse brand file: %w", err)
	}
	if len(file.Brands) == 0 {
		return nil, fmt.Errorf("brand file %s lists no brands", path)
	}
	if (file.StartDate == "") != (file.EndDate == "") {
		return nil, fmt.Errorf("start_date and end_date must be set together")
	}
	file.dir = filepath.Dir(path)
	return &file, nil
}

func (f *BrandFile) Inputs() []models.BrandInput {
	inputs := make([]models.BrandInput, len(f.Brands))
	for i, b := range f.Brands {
		inputs[i] = b.BrandInput
	}
	return inputs
}

// AttachImages reads every listed reference image into the session.
func (f *BrandFile) AttachImages(session *services.Session) (int, error) {
	total := 0
	for _, brand := range f.Brands {
		modelNames := make([]string, 0, len(brand.ReferenceImages))
		for model := range brand.ReferenceImages {
			modelNames = append(modelNames, model)
		}
		sort.Strings(modelNames)

		for _, model := range modelNames {
			images, err := f.readImages(brand.ReferenceImages[model])
			if err != nil {
				return total, fmt.Errorf("%s - %s: %w", brand.Name, model, err)
			}
			if _, err := session.AttachImages(brand.Name, model, images); err != nil {
				return total, fmt.Errorf("%s - %s: %w", brand.Name, model, err)
			}
			total += len(images)
		}
	}
	return total, nil
}

func (f *BrandFile) readImages(paths []string) ([]models.ReferenceImage, error) {
	images := make([]models.ReferenceImage, 0, len(paths))
	for _, p := range paths {
		if !filepath.IsAbs(p) {
			p = filepath.Join(f.dir, p)
		}
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("failed to read reference image: %w", err)
		}
		images = append(images, models.ReferenceImage{
			Filename:    filepath.Base(p),
			ContentType: mime.TypeByExtension(filepath.Ext(p)),
			Data:        data,
		})
	}
	return images, nil
}

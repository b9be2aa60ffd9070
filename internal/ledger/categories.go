package ledger

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"example.com/finance-bot/backend/internal/models"
)

// Categories читает список известных описаний расходов.
func (s *Store) Categories() (models.CategoryList, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.categoriesLocked()
}

// AddDescription добавляет новое описание в категорию. Список растет только
// добавлением; дубликаты игнорируются.
func (s *Store) AddDescription(category models.Category, description string) error {
	description = strings.TrimSpace(description)
	if description == "" {
		return fmt.Errorf("%w: description is required", ErrInvalid)
	}
	if _, ok := models.ParseCategory(string(category)); !ok {
		return fmt.Errorf("%w: unknown category %q", ErrInvalid, category)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	list, err := s.categoriesLocked()
	if err != nil {
		return err
	}

	existing := list.For(category)
	for _, known := range existing {
		if known == description {
			return nil
		}
	}

	if category == models.CategoryWants {
		list.Wants = append(list.Wants, description)
	} else {
		list.Needs = append(list.Needs, description)
	}

	return writeDocument(s.categoriesFile, list)
}

func (s *Store) categoriesLocked() (models.CategoryList, error) {
	data, err := os.ReadFile(s.categoriesFile)
	if errors.Is(err, os.ErrNotExist) {
		list := models.CategoryList{Needs: []string{}, Wants: []string{}}
		if err := writeDocument(s.categoriesFile, list); err != nil {
			return models.CategoryList{}, err
		}
		return list, nil
	}
	if err != nil {
		return models.CategoryList{}, fmt.Errorf("read categories file: %w", err)
	}

	var list models.CategoryList
	if err := json.Unmarshal(data, &list); err != nil {
		return models.CategoryList{}, fmt.Errorf("%w: %s: %v", ErrCorrupt, s.categoriesFile, err)
	}
	if list.Needs == nil {
		list.Needs = []string{}
	}
	if list.Wants == nil {
		list.Wants = []string{}
	}

	return list, nil
}

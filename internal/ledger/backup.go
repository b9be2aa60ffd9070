package ledger

import "example.com/finance-bot/backend/internal/models"

// Backup описывает единый переносимый снимок всех документов хранилища.
type Backup struct {
	FinanceData models.Ledger       `json:"finance_data"`
	Categories  models.CategoryList `json:"categories"`
}

// ExportBackup собирает снимок леджера и списка категорий.
func (s *Store) ExportBackup() (Backup, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ledger, err := s.loadLocked()
	if err != nil {
		return Backup{}, err
	}

	categories, err := s.categoriesLocked()
	if err != nil {
		return Backup{}, err
	}

	return Backup{FinanceData: ledger, Categories: categories}, nil
}

// ImportBackup полностью замещает оба документа содержимым снимка.
func (s *Store) ImportBackup(b Backup) error {
	// Снимок мог прийти из старой версии без каких-то секций.
	normalize(&b.FinanceData)
	if b.Categories.Needs == nil {
		b.Categories.Needs = []string{}
	}
	if b.Categories.Wants == nil {
		b.Categories.Wants = []string{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := writeDocument(s.ledgerFile, b.FinanceData); err != nil {
		return err
	}

	return writeDocument(s.categoriesFile, b.Categories)
}

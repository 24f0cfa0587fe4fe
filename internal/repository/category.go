package repository

import (
	"context"
	"strings"
	"time"
	"unicode"

	"github.com/rivacortez/management-demo/internal/model"
	"github.com/rivacortez/management-demo/prometheus"

	"golang.org/x/text/unicode/norm"
	"gorm.io/gorm"
)

// CategoryRepository stores product categories
type CategoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository creates a category repository
func NewCategoryRepository(db *gorm.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

// List returns categories ordered by name. A nil status returns both active and inactive ones.
func (r *CategoryRepository) List(ctx context.Context, status *bool, page Page) ([]model.Category, int64, error) {
	defer prometheus.TrackDBOperation("category_list")(time.Now())

	q := r.db.WithContext(ctx).Model(&model.Category{})
	if status != nil {
		q = q.Where("status = ?", *status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	categories := []model.Category{}
	if err := page.apply(q.Order("category_name ASC")).Find(&categories).Error; err != nil {
		return nil, 0, err
	}
	return categories, total, nil
}

// Get returns one category
func (r *CategoryRepository) Get(ctx context.Context, id uint) (*model.Category, error) {
	defer prometheus.TrackDBOperation("category_get")(time.Now())

	var category model.Category
	if err := r.db.WithContext(ctx).First(&category, id).Error; err != nil {
		return nil, translate(err)
	}
	return &category, nil
}

// Create inserts a category, deriving the slug from the name when it is empty.
// A slug already in use is a conflict.
func (r *CategoryRepository) Create(ctx context.Context, category *model.Category) error {
	defer prometheus.TrackDBOperation("category_insert")(time.Now())

	if category.CategorySlug == "" {
		category.CategorySlug = Slugify(category.CategoryName)
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := slugAvailable(tx, category.CategorySlug, 0); err != nil {
			return err
		}
		return tx.Create(category).Error
	})
}

// Update writes the editable columns of an existing category
func (r *CategoryRepository) Update(ctx context.Context, category *model.Category) error {
	defer prometheus.TrackDBOperation("category_update")(time.Now())

	if category.CategorySlug == "" {
		category.CategorySlug = Slugify(category.CategoryName)
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := mustExist(tx, &model.Category{}, category.ID); err != nil {
			return err
		}
		if err := slugAvailable(tx, category.CategorySlug, category.ID); err != nil {
			return err
		}
		return tx.Model(category).
			Select("category_name", "category_slug", "main_image", "status").
			Updates(category).Error
	})
}

// Delete soft-deletes a category and unlinks it from its products
func (r *CategoryRepository) Delete(ctx context.Context, id uint) error {
	defer prometheus.TrackDBOperation("category_delete")(time.Now())

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Delete(&model.Category{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		return tx.Exec("DELETE FROM product_categories WHERE category_id = ?", id).Error
	})
}

// slugAvailable checks the unique index including soft-deleted rows, which still hold their slug
func slugAvailable(tx *gorm.DB, slug string, exceptID uint) error {
	var count int64
	err := tx.Unscoped().Model(&model.Category{}).
		Where("category_slug = ? AND id <> ?", slug, exceptID).
		Count(&count).Error
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrConflict
	}
	return nil
}

// Slugify lowercases name, strips accents and joins the remaining words with hyphens
func Slugify(name string) string {
	var b strings.Builder
	pendingDash := false
	for _, r := range norm.NFD.String(name) {
		switch {
		case unicode.Is(unicode.Mn, r):
			continue
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			if pendingDash && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingDash = false
			b.WriteRune(unicode.ToLower(r))
		default:
			pendingDash = true
		}
	}
	return b.String()
}

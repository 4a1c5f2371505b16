package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"jobboard/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var (
	// ErrNotFound 记录不存在。
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate 违反唯一约束。
	ErrDuplicate = errors.New("duplicate record")
	// ErrInactive 目标记录已停用。
	ErrInactive = errors.New("record inactive")
	// ErrStale 条件更新未命中，记录已被并发修改。
	ErrStale = errors.New("record changed concurrently")
)

// Config 数据库配置，driver 支持 sqlite 与 postgres。
type Config struct {
	Driver string `yaml:"driver" json:"driver"`
	Path   string `yaml:"path" json:"path"`
	DSN    string `yaml:"dsn" json:"dsn"`
}

// Store 封装 gorm 数据库访问，负责账号、公司、职位、投递、收藏、通知与订阅的增删查。
type Store struct {
	db *gorm.DB
}

// partialIndexes 由 AutoMigrate 无法表达的索引：
// 有效投递唯一、公司内职位标题与公司名称大小写不敏感唯一（基于 FoldKey 列）。
var partialIndexes = []string{
	`DROP INDEX IF EXISTS idx_job_postings_company_title`,
	`DROP INDEX IF EXISTS idx_companies_name_lower`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_job_applications_active
		ON job_applications (applicant_id, job_id)
		WHERE status NOT IN ('rejected', 'withdrawn')`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_job_postings_company_title_key
		ON job_postings (company_id, title_key)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_companies_name_key
		ON companies (name_key)`,
}

// Open 按配置打开数据库并自动迁移。
func Open(cfg Config) (*Store, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Driver)) {
	case "", "sqlite":
		path := cfg.Path
		if path == "" {
			path = "jobboard.db"
		}
		return NewStore(path)
	case "postgres":
		if cfg.DSN == "" {
			return nil, fmt.Errorf("postgres dsn required")
		}
		db, err := gorm.Open(postgres.Open(cfg.DSN), gormConfig())
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		return newStore(db)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

// NewStore 创建基于 SQLite 文件的 Store 并自动迁移数据表。
func NewStore(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	dsn := dbPath + "?_busy_timeout=5000&_foreign_keys=on"
	db, err := gorm.Open(sqlite.Open(dsn), gormConfig())
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// SQLite 只允许单写者，串行化连接避免 database is locked。
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	return newStore(db)
}

func newStore(db *gorm.DB) (*Store, error) {
	s := &Store{db: db}
	if err := s.Migrate(context.Background()); err != nil {
		return nil, err
	}
	return s, nil
}

func gormConfig() *gorm.Config {
	return &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	}
}

// Migrate 自动迁移数据表并补齐部分索引，可重复执行。
func (s *Store) Migrate(ctx context.Context) error {
	db := s.db.WithContext(ctx)
	if err := db.AutoMigrate(model.AllModels()...); err != nil {
		return fmt.Errorf("auto migrate models: %w", err)
	}
	if err := backfillFoldKeys(db); err != nil {
		return err
	}
	for _, stmt := range partialIndexes {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("create index: %w", err)
		}
	}
	return nil
}

// backfillFoldKeys 为旧数据补齐 title_key / name_key，之后才能建立唯一索引。
func backfillFoldKeys(db *gorm.DB) error {
	var jobs []model.JobPosting
	if err := db.Select("id", "title").Where("title_key = ?", "").Find(&jobs).Error; err != nil {
		return fmt.Errorf("load jobs for backfill: %w", err)
	}
	for _, j := range jobs {
		if err := db.Model(&model.JobPosting{}).Where("id = ?", j.ID).
			UpdateColumn("title_key", model.FoldKey(j.Title)).Error; err != nil {
			return fmt.Errorf("backfill job title key: %w", err)
		}
	}

	var companies []model.Company
	if err := db.Select("id", "name").Where("name_key = ?", "").Find(&companies).Error; err != nil {
		return fmt.Errorf("load companies for backfill: %w", err)
	}
	for _, c := range companies {
		if err := db.Model(&model.Company{}).Where("id = ?", c.ID).
			UpdateColumn("name_key", model.FoldKey(c.Name)).Error; err != nil {
			return fmt.Errorf("backfill company name key: %w", err)
		}
	}
	return nil
}

// Close 关闭底层数据库连接。
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("get sql DB: %w", err)
	}
	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("close db: %w", err)
	}
	return nil
}

// translate 把 gorm 错误转换为包内哨兵错误。
func translate(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%s: %w", op, ErrDuplicate)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}

func clampPage(limit, offset int) (int, int) {
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 {
		limit = 50
	}
	return limit, offset
}

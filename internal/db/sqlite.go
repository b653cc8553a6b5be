package db

import (
  "fmt"

  "github.com/google/uuid"
  "gorm.io/driver/sqlite"
  "gorm.io/gorm"
  gormlogger "gorm.io/gorm/logger"
)

// OpenTest opens a private in-memory SQLite database with the full schema.
// Service tests use it to exercise transactional flows without a Postgres
// instance; the unique indexes migrate identically. Each call gets its own
// named shared-cache database so pooled connections see the same data while
// tests stay isolated from each other.
func OpenTest() (*gorm.DB, error) {
  dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_fk=1", uuid.NewString())
  gormDB, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
    Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
    TranslateError: true,
  })
  if err != nil {
    return nil, fmt.Errorf("open sqlite: %w", err)
  }
  if err := AutoMigrate(gormDB); err != nil {
    return nil, fmt.Errorf("migrate sqlite: %w", err)
  }
  return gormDB, nil
}

package pipeline

import (
	"database/sql"
	"fmt"
	"math"
	"reflect"
	"strings"
	"time"

	"github.com/richard-senior/footform/internal/logger"
	_ "modernc.org/sqlite"
)

var db *sql.DB

// Persistable is implemented by structs that map to a sqlite table via
// column/dbtype/primary/index struct tags
type Persistable interface {
	TableName() string
	BeforeSave() error
}

// GetDB opens the configured database on first use
func GetDB() (*sql.DB, error) {
	if db == nil {
		var err error
		db, err = sql.Open("sqlite", Config.DatabasePath)
		if err != nil {
			return nil, fmt.Errorf("failed to open database: %w", err)
		}
		if err = db.Ping(); err != nil {
			return nil, fmt.Errorf("failed to ping database: %w", err)
		}
		logger.Info("database initialised", Config.DatabasePath)
	}
	return db, nil
}

// CloseDatabase closes the database connection
func CloseDatabase() error {
	if db != nil {
		err := db.Close()
		db = nil
		return err
	}
	return nil
}

// CreateTables creates every table the pipeline persists
func CreateTables() error {
	if err := CreateTable(&TeamMatchRecord{}); err != nil {
		return fmt.Errorf("failed to create team match table: %w", err)
	}
	if err := CreateTable(&ModelRow{}); err != nil {
		return fmt.Errorf("failed to create model table: %w", err)
	}
	return nil
}

// CreateTable creates the table and indexes for the given persistable
func CreateTable(obj Persistable) error {
	d, err := GetDB()
	if err != nil {
		return err
	}

	createSQL := generateCreateTableSQL(obj)
	logger.Debug("creating table with SQL", createSQL)
	if _, err := d.Exec(createSQL); err != nil {
		return fmt.Errorf("failed to create table %s: %w", obj.TableName(), err)
	}

	for _, query := range generateIndexSQL(obj) {
		logger.Debug("creating index with SQL", query)
		if _, err := d.Exec(query); err != nil {
			logger.Warn("failed to create index", err)
		}
	}
	return nil
}

func structType(obj any) reflect.Type {
	t := reflect.TypeOf(obj)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t
}

func columnName(field reflect.StructField) string {
	if name := field.Tag.Get("column"); name != "" {
		return name
	}
	return strings.ToLower(field.Name)
}

func generateCreateTableSQL(obj Persistable) string {
	objType := structType(obj)

	var columns []string
	var primaryKeys []string

	for i := 0; i < objType.NumField(); i++ {
		field := objType.Field(i)
		if !field.IsExported() || field.Tag.Get("dbtype") == "" {
			continue
		}
		name := columnName(field)
		if field.Tag.Get("primary") == "true" {
			primaryKeys = append(primaryKeys, name)
		}
		columns = append(columns, fmt.Sprintf("%s %s", name, field.Tag.Get("dbtype")))
	}

	if len(primaryKeys) > 0 {
		columns = append(columns, fmt.Sprintf("PRIMARY KEY (%s)", strings.Join(primaryKeys, ", ")))
	}
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", obj.TableName(), strings.Join(columns, ", "))
}

func generateIndexSQL(obj Persistable) []string {
	objType := structType(obj)

	var indexSQL []string
	for i := 0; i < objType.NumField(); i++ {
		field := objType.Field(i)
		if field.Tag.Get("index") == "" || field.Tag.Get("dbtype") == "" {
			continue
		}
		name := columnName(field)
		indexSQL = append(indexSQL, fmt.Sprintf(
			"CREATE INDEX IF NOT EXISTS idx_%s_%s ON %s(%s)",
			obj.TableName(), name, obj.TableName(), name))
	}
	return indexSQL
}

// toDBValue converts a field value to its stored form.
// NaN becomes NULL and dates become ISO text.
func toDBValue(v reflect.Value) any {
	switch val := v.Interface().(type) {
	case float64:
		if math.IsNaN(val) {
			return nil
		}
		return val
	case time.Time:
		return FormatDate(val)
	default:
		return val
	}
}

// nullFloat scans a possibly NULL REAL column into a float64, NULL -> NaN
type nullFloat struct {
	dest *float64
}

func (n *nullFloat) Scan(src any) error {
	if src == nil {
		*n.dest = math.NaN()
		return nil
	}
	switch v := src.(type) {
	case float64:
		*n.dest = v
	case int64:
		*n.dest = float64(v)
	default:
		return fmt.Errorf("cannot scan %T into float64", src)
	}
	return nil
}

// dateText scans an ISO date string into a time.Time
type dateText struct {
	dest *time.Time
}

func (d *dateText) Scan(src any) error {
	if src == nil {
		*d.dest = time.Time{}
		return nil
	}
	s, ok := src.(string)
	if !ok {
		return fmt.Errorf("cannot scan %T into time.Time", src)
	}
	t, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d.dest = t
	return nil
}

func insertData(obj Persistable) ([]string, []string, []any) {
	objValue := reflect.ValueOf(obj).Elem()
	objType := objValue.Type()

	var columns []string
	var placeholders []string
	var values []any

	for i := 0; i < objType.NumField(); i++ {
		field := objType.Field(i)
		if !field.IsExported() || field.Tag.Get("dbtype") == "" {
			continue
		}
		columns = append(columns, columnName(field))
		placeholders = append(placeholders, "?")
		values = append(values, toDBValue(objValue.Field(i)))
	}
	return columns, placeholders, values
}

func selectData(obj any) ([]string, []any) {
	objValue := reflect.ValueOf(obj).Elem()
	objType := objValue.Type()

	var columns []string
	var destinations []any

	for i := 0; i < objType.NumField(); i++ {
		field := objType.Field(i)
		if !field.IsExported() || field.Tag.Get("dbtype") == "" {
			continue
		}
		columns = append(columns, columnName(field))

		addr := objValue.Field(i).Addr().Interface()
		switch dest := addr.(type) {
		case *float64:
			destinations = append(destinations, &nullFloat{dest: dest})
		case *time.Time:
			destinations = append(destinations, &dateText{dest: dest})
		default:
			destinations = append(destinations, addr)
		}
	}
	return columns, destinations
}

// primaryKey builds the key map from the primary struct tags
func primaryKey(obj Persistable) map[string]any {
	objValue := reflect.ValueOf(obj).Elem()
	objType := objValue.Type()

	key := make(map[string]any)
	for i := 0; i < objType.NumField(); i++ {
		field := objType.Field(i)
		if field.Tag.Get("primary") != "true" {
			continue
		}
		key[columnName(field)] = toDBValue(objValue.Field(i))
	}
	return key
}

func buildWhereClause(key map[string]any) (string, []any) {
	var conditions []string
	var values []any
	for column, value := range key {
		conditions = append(conditions, fmt.Sprintf("%s = ?", column))
		values = append(values, value)
	}
	return strings.Join(conditions, " AND "), values
}

func saveSQL(obj Persistable) (string, []any) {
	columns, placeholders, values := insertData(obj)
	query := fmt.Sprintf("INSERT OR REPLACE INTO %s (%s) VALUES (%s)",
		obj.TableName(), strings.Join(columns, ", "), strings.Join(placeholders, ", "))
	return query, values
}

// Save upserts the object into its table
func Save(obj Persistable) error {
	d, err := GetDB()
	if err != nil {
		return err
	}
	if err := obj.BeforeSave(); err != nil {
		return fmt.Errorf("before save hook failed: %w", err)
	}

	query, values := saveSQL(obj)
	if _, err := d.Exec(query, values...); err != nil {
		return fmt.Errorf("failed to save into %s: %w", obj.TableName(), err)
	}
	return nil
}

// BulkSave upserts many objects inside one transaction
func BulkSave(objects []Persistable) error {
	if len(objects) == 0 {
		return nil
	}
	d, err := GetDB()
	if err != nil {
		return err
	}

	tx, err := d.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, obj := range objects {
		if err := obj.BeforeSave(); err != nil {
			return fmt.Errorf("before save hook failed: %w", err)
		}
		query, values := saveSQL(obj)
		if _, err := tx.Exec(query, values...); err != nil {
			return fmt.Errorf("failed to save into %s: %w", obj.TableName(), err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Exists reports whether a row with this object's primary key is stored
func Exists(obj Persistable) (bool, error) {
	d, err := GetDB()
	if err != nil {
		return false, err
	}

	whereClause, values := buildWhereClause(primaryKey(obj))
	query := fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE %s", obj.TableName(), whereClause)

	var count int
	if err := d.QueryRow(query, values...).Scan(&count); err != nil {
		return false, fmt.Errorf("failed to check existence in %s: %w", obj.TableName(), err)
	}
	return count > 0, nil
}

// Delete removes the object's row
func Delete(obj Persistable) error {
	d, err := GetDB()
	if err != nil {
		return err
	}

	whereClause, values := buildWhereClause(primaryKey(obj))
	query := fmt.Sprintf("DELETE FROM %s WHERE %s", obj.TableName(), whereClause)
	if _, err := d.Exec(query, values...); err != nil {
		return fmt.Errorf("failed to delete from %s: %w", obj.TableName(), err)
	}
	return nil
}

// FindByPrimaryKey loads the row matching obj's primary key fields into obj
func FindByPrimaryKey(obj Persistable) error {
	d, err := GetDB()
	if err != nil {
		return err
	}

	columns, destinations := selectData(obj)
	whereClause, values := buildWhereClause(primaryKey(obj))
	query := fmt.Sprintf("SELECT %s FROM %s WHERE %s",
		strings.Join(columns, ", "), obj.TableName(), whereClause)

	logger.Debug("FindByPrimaryKey SQL", query)
	err = d.QueryRow(query, values...).Scan(destinations...)
	if err == sql.ErrNoRows {
		return fmt.Errorf("record not found in %s", obj.TableName())
	}
	if err != nil {
		return fmt.Errorf("failed to scan row from %s: %w", obj.TableName(), err)
	}
	return nil
}

// FindWhere returns every row of obj's table matching the where clause.
// Pass an empty clause to fetch the whole table. An order by suffix is
// allowed inside the clause.
func FindWhere(obj Persistable, whereClause string, args ...any) ([]Persistable, error) {
	d, err := GetDB()
	if err != nil {
		return nil, err
	}

	columns, _ := selectData(obj)
	query := fmt.Sprintf("SELECT %s FROM %s", strings.Join(columns, ", "), obj.TableName())
	if whereClause != "" {
		query += " WHERE " + whereClause
	}

	logger.Debug("FindWhere SQL", query)
	rows, err := d.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", obj.TableName(), err)
	}
	defer rows.Close()

	objType := structType(obj)
	var results []Persistable
	for rows.Next() {
		newObj := reflect.New(objType).Interface().(Persistable)
		_, destinations := selectData(newObj)
		if err := rows.Scan(destinations...); err != nil {
			return nil, fmt.Errorf("failed to scan row from %s: %w", obj.TableName(), err)
		}
		results = append(results, newObj)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows from %s: %w", obj.TableName(), err)
	}
	return results, nil
}

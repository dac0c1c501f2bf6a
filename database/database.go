// Package database keeps the hub's journal: who its users are and what
// scripts have been run. Any of the supported SQL engines can hold it.
package database

import (
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/tim-hardcastle/Minnow/text"

	// SQL drivers

	_ "github.com/go-sql-driver/mysql"    // MariaDB & MySQL
	_ "github.com/lib/pq"                 // Postgres
	_ "github.com/microsoft/go-mssqldb"   // SQL Server
	_ "github.com/nakagami/firebirdsql"   // Firebird
	_ "github.com/sijms/go-ora"           // Oracle
	_ "modernc.org/sqlite"                // SQLite
)

// List of SQL drivers for when I want to import more: https://zchee.github.io/golang-wiki/SQLDrivers/

var (
	drivers = map[string]string{"Firebird SQL": "firebirdsql", "MariaDB": "mysql", "MySQL": "mysql",
		"Oracle": "oracle", "Postgres": "postgres", "SQL Server": "sqlserver", "SQLite": "sqlite"}
)

func GetSqlDB(driver, host, port, name, user, password string) (*sql.DB, error) {

	connectionString := fmt.Sprintf("host=%v port=%v dbname=%v user=%v password=%v sslmode=disable",
		host, port, name, user, password)

	if driver == "SQLite" { // SQLite wants a filename, not a network address.
		connectionString = name
	}

	sqlObj, connectionError := sql.Open(drivers[driver], connectionString)
	if connectionError != nil {
		return nil, connectionError
	}

	err := sqlObj.Ping()

	if err != nil {
		return nil, err
	}

	return sqlObj, nil
}

func GetDriverOptions() string {
	result := "The following SQL drivers are available: \n\n"
	for k, v := range GetSortedDrivers() {
		result = result + fmt.Sprintf("  [%v] %v\n", k, v)
	}
	result = result + "\nPick a number"
	return result
}

func GetSortedDrivers() []string {
	dr := []string{}
	for k := range drivers {
		dr = append(dr, k)
	}
	sort.Strings(dr)
	return dr
}

// InitJournal makes the tables the hub needs, if they don't exist yet.
func InitJournal(db *sql.DB) error {
	query :=
		`CREATE TABLE IF NOT EXISTS _Users (
    username varchar(32),
    email varchar(60),
    password varchar(60),
PRIMARY KEY (username))`
	if _, err := db.Exec(query); err != nil {
		return err
	}

	query =
		`CREATE TABLE IF NOT EXISTS _Runs (
    serviceName varchar(32),
    scriptPath varchar(120),
    outcome varchar(60),
    ranAt varchar(32))`
	_, err := db.Exec(query)
	return err
}

func AddUser(db *sql.DB, username, email, password string) error {
	query :=
		`INSERT INTO _Users(username, email, password)
	VALUES ($1, $2, $3)`
	_, err := db.Exec(query, username, email, encrypt(password))

	return err
}

type userRow struct {
	password string
}

func ValidateUser(db *sql.DB, username, password string) error {
	var userData userRow

	rows, err := db.Query("SELECT password FROM _Users WHERE username = $1", username)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		if err := rows.Scan(&userData.password); err != nil {
			return err
		}
		if err = bcrypt.CompareHashAndPassword([]byte(userData.password), []byte(password)); err != nil {
			return errors.New("the hub doesn't recognize that combination of username and password")
		}

		return nil

	}
	// The case where there are no rows.
	return errors.New("the hub doesn't recognize that combination of username and password")
}

func LogRun(db *sql.DB, serviceName, scriptPath, outcome string) error {
	query :=
		`INSERT INTO _Runs(serviceName, scriptPath, outcome, ranAt)
	VALUES ($1, $2, $3, $4)`
	_, err := db.Exec(query, serviceName, scriptPath, outcome, time.Now().Format(time.RFC3339))

	return err
}

type runRow struct {
	scriptPath string
	outcome    string
	ranAt      string
}

func GetRuns(db *sql.DB, serviceName string) (string, error) {
	rows, err := db.Query(
		`SELECT scriptPath, outcome, ranAt FROM _Runs
WHERE serviceName = $1`, serviceName)
	if err != nil {
		return "", err
	}
	defer rows.Close()

	var runs []runRow

	for rows.Next() {
		var run runRow
		if err := rows.Scan(&run.scriptPath, &run.outcome, &run.ranAt); err != nil {
			return "", err
		}
		runs = append(runs, run)
	}

	if len(runs) == 0 {
		return "\nThe journal has no runs on record for this service.\n\n", nil
	}

	result := "\n"
	for _, v := range runs {
		result = result + text.BULLET + v.ranAt + "  " + v.scriptPath + "  " + v.outcome + "\n"
	}

	return result + "\n", nil
}

func encrypt(s string) string {
	result, _ := bcrypt.GenerateFromPassword([]byte(s), bcrypt.DefaultCost)
	return string(result)
}

package main

import (
	"database/sql"
	"fmt"
	"os"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
)

func main() {
	DownloadRecordings()
}

func DownloadRecordings() {
	db := ConnectToDbSql()
	rows, err := db.Query("SELECT " +
		"start_moment, " +
		"COALESCE(end_moment, start_moment), " +
		"user, " +
		"release_version, " +
		"COALESCE(simulation_version, -1), " +
		"COALESCE(input_version, -1), " +
		"id, " +
		"playthrough " +
		"FROM playthroughs")
	Check(err)
	defer func(rows *sql.Rows) { Check(rows.Close()) }(rows)

	dbRows := []dbRow{}
	for rows.Next() {
		row := dbRow{}
		err = rows.Scan(&row.startMoment, &row.endMoment, &row.user,
			&row.releaseVersion, &row.simulationVersion, &row.inputVersion,
			&row.id, &row.data)
		Check(err)
		dbRows = append(dbRows, row)
	}

	for i := range dbRows {
		dir := dbRows[i].user
		_ = os.Mkdir(dir, os.ModeDir)
		m := dbRows[i].startMoment
		// The extension carries both the simulation and the input version:
		// .pathfind-1-1. A replayer refuses files whose versions don't
		// match its own, so having them in the name saves opening files
		// that can't work.
		filename := fmt.Sprintf(
			"%s/%d%02d%02d-%02d%02d%02d.pathfind-%d-%d", dir, m.Year(),
			m.Month(), m.Day(), m.Hour(), m.Minute(), m.Second(),
			dbRows[i].simulationVersion, dbRows[i].inputVersion)
		WriteFile(filename, dbRows[i].data)
	}
}

func ConnectToDbSql() *sql.DB {
	cfg := mysql.Config{
		User:                 os.Getenv("PATHFIND_DBUSER"),
		Passwd:               os.Getenv("PATHFIND_DBPASSWORD"),
		Net:                  "tcp",
		Addr:                 os.Getenv("PATHFIND_DBADDR"),
		DBName:               os.Getenv("PATHFIND_DBNAME"),
		AllowNativePasswords: true,
		ParseTime:            true,
	}

	db, err := sql.Open("mysql", cfg.FormatDSN())
	Check(err)
	err = db.Ping()
	Check(err)
	return db
}

func Check(e error) {
	if e != nil {
		panic(e)
	}
}

func WriteFile(name string, data []byte) {
	err := os.WriteFile(name, data, 0644)
	Check(err)
}

type dbRow struct {
	startMoment       time.Time
	endMoment         time.Time
	user              string
	releaseVersion    int64
	simulationVersion int64
	inputVersion      int64
	id                uuid.UUID
	data              []byte
}

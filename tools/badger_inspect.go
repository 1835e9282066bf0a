package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/mama165/sdk-go/database"
	"github.com/olekukonko/tablewriter"
)

// Offline inspector for the relay's badger store. Scans a key prefix
// ("msg:", "conv:", "user:") and renders the decoded records.
func main() {
	dbPath := flag.String("db", database.DefaultPath, "Path to badger DB")
	// Par défaut on liste les messages, pas les index msgid:
	prefix := flag.String("prefix", "msg:", "Prefix to scan")
	flag.Parse()

	db, err := openDB(*dbPath)
	if err != nil {
		log.Fatal("Error while opening Badger: ", err)
	}
	defer db.Close()

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Key", "Type", "Timestamp", "ID", "Detail"})
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")

	err = db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefixBytes := []byte(*prefix)
		for it.Seek(prefixBytes); it.ValidForPrefix(prefixBytes); it.Next() {
			item := it.Item()
			key := string(item.Key())

			// On ignore les index secondaires et les compteurs
			if strings.HasPrefix(key, "msgid:") || strings.HasPrefix(key, "seq:") {
				continue
			}

			err := item.Value(func(v []byte) error {
				table.Append(describe(key, v))
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.Fatal(err)
	}

	table.Render()
}

// describe decodes one record according to its key namespace.
func describe(key string, val []byte) []string {
	switch {
	case strings.HasPrefix(key, "msg:"):
		var record struct {
			ID       int64  `json:"id"`
			SenderID int64  `json:"sender_id"`
			Content  string `json:"content"`
			SentAt   int64  `json:"sent_at"`
			Read     bool   `json:"read"`
		}
		if err := json.Unmarshal(val, &record); err != nil {
			return rawRow(key, val)
		}
		detail := fmt.Sprintf("from=%d read=%t %q", record.SenderID, record.Read, clip(record.Content))
		at := time.Unix(0, record.SentAt).Format("15:04:05")
		return []string{key, "MSG", at, fmt.Sprintf("%d", record.ID), detail}

	case strings.HasPrefix(key, "conv"):
		var record struct {
			ID        int64 `json:"id"`
			UserA     int64 `json:"user_a"`
			UserB     int64 `json:"user_b"`
			CreatedAt int64 `json:"created_at"`
		}
		if err := json.Unmarshal(val, &record); err != nil {
			return rawRow(key, val)
		}
		at := time.Unix(record.CreatedAt, 0).Format("15:04:05")
		detail := fmt.Sprintf("between %d and %d", record.UserA, record.UserB)
		return []string{key, "CONV", at, fmt.Sprintf("%d", record.ID), detail}

	case strings.HasPrefix(key, "user:"):
		var record struct {
			ID        int64  `json:"id"`
			Name      string `json:"name"`
			CreatedAt int64  `json:"created_at"`
		}
		if err := json.Unmarshal(val, &record); err != nil {
			return rawRow(key, val)
		}
		at := time.Unix(record.CreatedAt, 0).Format("15:04:05")
		return []string{key, "USER", at, fmt.Sprintf("%d", record.ID), record.Name}

	default:
		return rawRow(key, val)
	}
}

func rawRow(key string, val []byte) []string {
	return []string{key, "RAW", "--:--:--", "-", fmt.Sprintf("Size: %d bytes", len(val))}
}

func clip(content string) string {
	if len(content) > 40 {
		return content[:40] + "…"
	}
	return content
}

func openDB(path string) (*badger.DB, error) {
	opts := badger.DefaultOptions(path).
		WithReadOnly(true).
		WithLogger(nil).
		WithBypassLockGuard(true).
		WithValueLogFileSize(10 * 1024 * 1024)

	db, err := badger.Open(opts)
	if err != nil {
		// Si corruption détectée, essaie un open en write pour truncate
		if strings.Contains(err.Error(), "Log truncate required") {
			repairOpts := badger.DefaultOptions(path).
				WithLogger(nil).WithBypassLockGuard(true)

			db, err = badger.Open(repairOpts)
			if err != nil {
				return nil, fmt.Errorf("repair failed: %w", err)
			}

			// Ferme et réouvre en read-only
			db.Close()
			return badger.Open(opts)
		}
		return nil, err
	}
	return db, nil
}

package internal

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/gorilla/mux"
)

//go:embed inspect.html
var templatesFS embed.FS

const (
	defaultPrefix = "msg:"
	maxKeys       = 1000
	noTime        = "--:--:--"
)

// KeyRow is one badger key as shown by the inspector.
type KeyRow struct {
	Key   string `json:"key"`
	Kind  string `json:"kind"`
	At    string `json:"at"`
	ID    string `json:"id"`
	Scope string `json:"scope"`
	Size  int64  `json:"size"`
}

type inspectPage struct {
	Prefix    string
	Rows      []KeyRow
	Truncated bool
}

// keyLayouts splits the fields of each key family after its kind:
// msg:{group}:{nanos}:{id}, audit:{nanos}:{id}, member:{user}:{group}, idx:msg:{id}...
var keyLayouts = map[string]func(row *KeyRow, fields []string){
	"msg": func(row *KeyRow, f []string) {
		if len(f) == 3 {
			row.Scope, row.At, row.ID = f[0], nanosClock(f[1]), f[2]
		}
	},
	"audit": func(row *KeyRow, f []string) {
		if len(f) == 2 {
			row.At, row.ID = nanosClock(f[0]), f[1]
		}
	},
	"member": func(row *KeyRow, f []string) {
		if len(f) == 2 {
			row.Scope, row.ID = f[0], f[1]
		}
	},
	"idx": func(row *KeyRow, f []string) {
		if len(f) == 2 {
			row.Scope, row.ID = f[0], f[1]
		}
	},
}

// ParseKey describes a relay key. Unknown families keep their last field as ID.
func ParseKey(key string, size int64) KeyRow {
	kind, rest, _ := strings.Cut(key, ":")
	row := KeyRow{Key: key, Kind: kind, At: noTime, Size: size}
	fields := strings.Split(rest, ":")
	if layout, ok := keyLayouts[kind]; ok {
		layout(&row, fields)
	} else if rest != "" {
		row.ID = fields[len(fields)-1]
	}
	return row
}

// NewDebugHandler serves a read-only view of the badger keys under ?prefix=.
// ?format=json returns the rows instead of the HTML page.
func NewDebugHandler(db *badger.DB, endpoint string) http.Handler {
	tmpl := template.Must(template.ParseFS(templatesFS, "inspect.html"))
	r := mux.NewRouter()
	r.HandleFunc(endpoint, func(w http.ResponseWriter, req *http.Request) {
		page := inspectPage{Prefix: req.URL.Query().Get("prefix")}
		if page.Prefix == "" {
			page.Prefix = defaultPrefix
		}
		err := db.View(func(txn *badger.Txn) error {
			options := badger.DefaultIteratorOptions
			options.PrefetchValues = false
			it := txn.NewIterator(options)
			defer it.Close()
			prefix := []byte(page.Prefix)
			for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
				if len(page.Rows) == maxKeys {
					page.Truncated = true
					break
				}
				item := it.Item()
				page.Rows = append(page.Rows, ParseKey(string(item.Key()), item.ValueSize()))
			}
			return nil
		})
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		if req.URL.Query().Get("format") == "json" {
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(page.Rows)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_ = tmpl.Execute(w, page)
	}).Methods(http.MethodGet)
	return r
}

// StartDebugServer serves NewDebugHandler on localhost until ctx is done.
// Only started when the log level is DEBUG.
func StartDebugServer(ctx context.Context, log *slog.Logger, db *badger.DB, port int, endpoint string) {
	srv := &http.Server{
		Addr:              fmt.Sprintf("localhost:%d", port),
		Handler:           NewDebugHandler(db, endpoint),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Warn("Debug server stopped", "error", err)
		}
	}()
	go func() {
		<-ctx.Done()
		_ = srv.Close()
	}()
}

func nanosClock(raw string) string {
	nanos, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return noTime
	}
	return time.Unix(0, nanos).UTC().Format("15:04:05")
}

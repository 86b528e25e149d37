// Package watcher следит за каталогом и сообщает о новых CSV-файлах.
package watcher

import (
	"context"
	"log/slog"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

const (
	eventsBuffer = 16
	settleDelay  = 300 * time.Millisecond
)

type Watcher struct {
	watcher    *fsnotify.Watcher
	extensions []string
	settle     time.Duration // файл отдаётся после паузы в событиях по нему
	log        *slog.Logger
}

// New создаёт наблюдателя за файлами с заданными расширениями (без учёта
// регистра). Пустой список означает ".csv".
func New(log *slog.Logger, extensions []string) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	if len(extensions) == 0 {
		extensions = []string{".csv"}
	}
	exts := make([]string, len(extensions))
	for i, ext := range extensions {
		exts[i] = strings.ToLower(ext)
	}

	return &Watcher{
		watcher:    w,
		extensions: exts,
		settle:     settleDelay,
		log:        log,
	}, nil
}

// Watch начинает следить за dir и отдаёт пути созданных или изменённых файлов.
// Канал закрывается при отмене ctx или после Close.
func (w *Watcher) Watch(ctx context.Context, dir string) (<-chan string, error) {
	if err := w.watcher.Add(dir); err != nil {
		return nil, err
	}

	paths := make(chan string, eventsBuffer)
	ready := make(chan string)
	done := make(chan struct{})

	go func() {
		// Одна запись файла порождает несколько событий Create/Write, поэтому
		// путь отдаётся только когда события по нему затихли.
		pending := make(map[string]*time.Timer)
		defer func() {
			for _, tm := range pending {
				tm.Stop()
			}
			close(done)
			close(paths)
		}()

		for {
			select {
			case <-ctx.Done():
				return

			case event, ok := <-w.watcher.Events:
				if !ok {
					return
				}
				if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
					continue
				}
				if !w.isWatched(event.Name) {
					continue
				}

				w.log.Debug("file event", "path", event.Name, "op", event.Op.String())
				if tm, ok := pending[event.Name]; ok {
					tm.Reset(w.settle)
					continue
				}
				name := event.Name
				pending[name] = time.AfterFunc(w.settle, func() {
					select {
					case ready <- name:
					case <-done:
					}
				})

			case name := <-ready:
				delete(pending, name)
				select {
				case paths <- name:
				case <-ctx.Done():
					return
				}

			case err, ok := <-w.watcher.Errors:
				if !ok {
					return
				}
				w.log.Warn("watch error", "error", err)
			}
		}
	}()

	return paths, nil
}

func (w *Watcher) Close() error {
	return w.watcher.Close()
}

func (w *Watcher) isWatched(path string) bool {
	return slices.Contains(w.extensions, strings.ToLower(filepath.Ext(path)))
}

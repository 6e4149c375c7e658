// Package cleanup removes the temporary screenshots a selection session
// leaves behind. Removal is best effort: a missing file is not an error and
// one failure never stops the others.
package cleanup

import (
	"errors"
	"log"
	"os"
	"sync"
)

// Remove deletes a single temp file. Deleting a file that is already gone is
// a no-op so double-deletes during teardown stay silent.
func Remove(path string) error {
	if path == "" {
		return nil
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// RemoveAll deletes every path concurrently and logs each failure on its
// own. It always returns after all removals finished.
func RemoveAll(paths []string) {
	var wg sync.WaitGroup
	for _, p := range paths {
		wg.Add(1)
		go func(path string) {
			defer wg.Done()
			if err := Remove(path); err != nil {
				log.Printf("cleanup: remove %s: %v", path, err)
			}
		}(p)
	}
	wg.Wait()
}

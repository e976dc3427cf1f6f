package main

import (
	"fmt"
	"io"
	"os"

	neurocache "github.com/hemansnation/NeuroCache"
	"github.com/hemansnation/NeuroCache/internal/observability"
)

// runDemo remembers two facts, reopens the database to show they persisted,
// clears it, and finally deletes the database file.
func runDemo(path string, logger *observability.Logger, out io.Writer) error {
	opt := neurocache.WithLogger(logger)

	fmt.Fprintln(out, "Opening memory...")
	mem, err := neurocache.Open(path, opt)
	if err != nil {
		return err
	}
	if err := mem.Clear(); err != nil {
		mem.Close()
		return err
	}

	fmt.Fprintln(out, "Remembering two facts...")
	for _, kv := range [][2]string{{"user_name", "Himanshu"}, {"favorite_food", "pizza"}} {
		if err := mem.Remember(kv[0], kv[1], nil); err != nil {
			mem.Close()
			return err
		}
	}

	name, _ := mem.Recall("user_name")
	fmt.Fprintf(out, "  > Recalled name: %s\n", name)
	if err := mem.Close(); err != nil {
		return err
	}

	fmt.Fprintln(out, "Reopening with a new handle...")
	err = neurocache.With(path, func(m *neurocache.Memory) error {
		name, ok := m.Recall("user_name")
		if !ok || name != "Himanshu" {
			return fmt.Errorf("persistence check failed: got %q", name)
		}
		fmt.Fprintf(out, "  > Recalled name from new handle: %s\n", name)
		fmt.Fprintln(out, "Persistence check passed.")

		if err := m.Clear(); err != nil {
			return err
		}
		if _, ok := m.Recall("user_name"); ok {
			return fmt.Errorf("clear check failed: user_name still present")
		}
		fmt.Fprintln(out, "  > Recall after clear: <absent>")
		fmt.Fprintln(out, "Clear check passed.")
		return nil
	}, opt)
	if err != nil {
		return err
	}

	for _, suffix := range []string{"", "-wal", "-shm"} {
		if err := os.Remove(path + suffix); err != nil && !os.IsNotExist(err) {
			return err
		}
	}
	fmt.Fprintln(out, "Removed demo database file.")
	return nil
}

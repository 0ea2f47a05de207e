package lib_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/slok/pentrack/pkg/lib"
)

// This example shows how to track progress on a temporary document.
func Example_tracking() {
	ctx := context.Background()

	dir, err := os.MkdirTemp("", "pentrack-example-*")
	if err != nil {
		panic(err)
	}
	defer os.RemoveAll(dir)

	client, err := lib.New(ctx, lib.Config{
		DataFile:  filepath.Join(dir, "progress.json"),
		NoHistory: true,
	})
	if err != nil {
		panic(err)
	}
	defer client.Close()

	_ = client.UpdateTarget(ctx, lib.TargetUpdate{Name: "Acme", IPRange: "10.0.0.0/24"})
	_ = client.SetTaskStatus(ctx, "Pre-Engagement", "Define scope and objectives", true)
	_ = client.SetTaskStatus(ctx, "Pre-Engagement", "Establish rules of engagement", true)

	p, err := client.Progress(ctx)
	if err != nil {
		panic(err)
	}

	fmt.Printf("%s: %d/%d tasks\n", p.Target.Name, p.Completed, p.Total)
	fmt.Printf("%s: %s\n", p.Phases[0].Name, p.Phases[0].Status)

	// Output:
	// Acme: 2/34 tasks
	// Pre-Engagement: partial
}

// This example shows how to handle errors.
func Example_errorHandling() {
	ctx := context.Background()

	dir, err := os.MkdirTemp("", "pentrack-example-errors-*")
	if err != nil {
		panic(err)
	}
	defer os.RemoveAll(dir)

	client, err := lib.New(ctx, lib.Config{
		DataFile:  filepath.Join(dir, "progress.json"),
		NoHistory: true,
	})
	if err != nil {
		panic(err)
	}
	defer client.Close()

	err = client.SetTaskStatus(ctx, "Post-Exploitation", "Social engineering", true)
	if errors.Is(err, lib.ErrNotFound) {
		fmt.Println("task not found (expected)")
	}

	_, err = client.History(ctx, 0)
	if errors.Is(err, lib.ErrNotValid) {
		fmt.Println("history disabled (expected)")
	}

	// Output:
	// task not found (expected)
	// history disabled (expected)
}

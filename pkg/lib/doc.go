// Package lib provides a Go SDK for tracking penetration testing methodology
// progress programmatically.
//
// This package allows applications to read and update the same progress
// document the pentrack CLI uses, without driving the interactive session.
// It is useful for scripting, automation, and building tools on top of pentrack.
//
// # Quick Start
//
//	client, err := lib.New(ctx, lib.Config{DataFile: "pentest_progress.json"})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	client.UpdateTarget(ctx, lib.TargetUpdate{Name: "Acme", IPRange: "10.0.0.0/24"})
//	client.SetTaskStatus(ctx, "Information Gathering", "DNS enumeration", true)
//
//	p, _ := client.Progress(ctx)
//	fmt.Printf("%d/%d tasks\n", p.Completed, p.Total)
//
// Every mutating method loads the stored document, applies the change and
// saves it back, so each call is a save checkpoint. A missing document is
// created, a stored document that can't be read or decoded is left untouched
// and the method fails with [ErrNotValid].
//
// # Reports
//
//	path, _ := client.ExportReport(ctx)
//
// # Save History
//
// Unless [Config].NoHistory is set, every save is recorded in a SQLite
// database and can be listed with [Client.History].
//
// # Error Handling
//
// All methods return errors that can be inspected with [errors.Is]:
//
//   - [ErrNotFound]: Unknown phase or task.
//   - [ErrNotValid]: Invalid input or operation (e.g. history disabled or an unusable stored document).
//
// # Thread Safety
//
// The progress document has a single writer. A [Client] must not be used
// concurrently with another client or a CLI session on the same document.
package lib

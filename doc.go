// Package minisdk provides a small push-token and event telemetry SDK.
//
// An SDK value serializes its operations on an internal queue: Initialize
// acts as a barrier, while SendPushToken and TrackEvent may run concurrently
// with each other. Observable side effects (Logger calls) are delivered on a
// separate single-threaded delivery queue. Every operation returns an *Op
// that resolves once its effects have been delivered.
//
// Usage:
//
//	sdk := minisdk.New(minisdk.NewStdoutLogger(nil), minisdk.NewFileTokenStore(dir))
//	defer sdk.Close(ctx)
//	sdk.Initialize("api-key", true)
//	sdk.TrackEvent("button_clicked", map[string]any{"screen": "Main"}).Wait(ctx)
//
// The push subpackage bridges a push provider (token issuance, notification
// delivery) to an SDK, and the sqlitestore subpackage provides a SQLite-backed
// TokenStore.
package minisdk

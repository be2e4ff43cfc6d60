// Package push connects a push-notification provider to a minisdk.SDK.
//
// The provider side (FCM/APNs registration, permission prompts, the
// connection that actually receives notifications) stays with the host. The
// host forwards what it gets to a Bridge:
//
//	bridge := push.NewBridge(sdk)
//	bridge.HandleToken(token)                 // new registration token
//	n, err := push.ParseDataMessage(raw, nil) // incoming data message
//	bridge.Presented(n)                       // shown to the user
//	bridge.Opened(n)                          // tapped by the user
package push

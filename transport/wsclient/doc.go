// Package wsclient is the client side of the real-time game channel.
//
// A Channel wraps one gorilla websocket connection and reports its lifecycle
// through callbacks, the way a browser socket does: OnOpen, one OnMessage per
// text frame, OnError on transport failures, and a final OnClose. Dial returns
// immediately; the handshake runs in the background.
//
//	ch, err := wsclient.NewDialer().Dial(ctx, "ws://localhost:8000/ws/k3x9qa/1", wsclient.Handlers{
//		OnMessage: func(data []byte) { ... },
//		OnClose:   func() { ... },
//	})
//	...
//	ch.SendJSON(engine.PaddleIntent{PaddleY: 270})
//
// A channel is never reopened; reconnecting means dialing a new one.
package wsclient

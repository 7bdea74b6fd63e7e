// Package client holds the connection lifecycle and input handling of the
// game client, independent of how it is drawn.
//
// A Controller moves through Idle, Connecting, Open and Closed. It never
// reconnects on its own: after an error or a dropped connection it shows a
// message and waits for Retry. Each state received bumps a version counter,
// which the view uses to redraw only when something changed.
//
// Arrow keys become {"paddleY": n} intents computed from the last state the
// server sent; the paddle is never moved locally.
package client

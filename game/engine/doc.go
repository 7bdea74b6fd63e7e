// Package engine holds the pong wire model and the authoritative match simulation.
//
// The package is shared by both sides of the connection:
//   - GameState and PaddleIntent are the JSON messages exchanged over the websocket
//   - the field constants (800x600 field, 20x100 paddles, 15px ball, 50px obstacles)
//     are fixed presentation values the renderer draws with
//   - ProposePaddleY turns an arrow key press into a clamped paddle proposal
//   - Game runs the physics on the server: ball movement, paddle, obstacle and
//     wall bounces, scoring and ball resets
//
// Usage:
//
//	g, err := engine.NewGame(engine.DefaultArena(), engine.NewRand(42))
//	if err != nil {
//		return err
//	}
//	g.ApplyIntent(engine.Player1, 120)
//	state := g.Step()
//
// Clients never run Game. They render whatever GameState the server sends and
// only propose paddle positions; the server clamps proposals to the same
// [0, GameHeight-PaddleHeight] range the client uses.
package engine

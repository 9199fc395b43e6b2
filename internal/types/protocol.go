package types

// Client -> Server
// create-lobby:
//   name: string
//
// join-lobby:
//   code: string   // case-insensitive
//   name: string
//
// set-ready:
//   ready: boolean
//
// start: {}       // host only
// play-card: {}   // plays the front card of the sender's hand
// slap: {}
//
// Closing the socket leaves the lobby.

// Server -> Client, as {"type": ..., "payload": ...}
// lobby-created / joined:  { code, id, name }   // sender only
// join-failed:             { reason }           // sender only
// error-msg:               { text }             // sender only
// game-started:            (no payload)
// state:                   { players: [{ id, name, handCount, ready }],
//                            centerCount, top: { rank, suit } | null,
//                            turnPlayerId, gameStarted, hostId, code }
// turn-changed:            { playerId, turnIndex }
// card-played:             { playerId, card: { rank, suit }, double,
//                            special: { requiredCount, remaining, initiatorId, rank } | null }
// special-resolve:         { winnerId, wonCount }
// slap-win:                { playerId, wonCount }
// invalid-slap:            { playerId }
// penalty-applied:         { playerId }
// game-over:               { winnerId }

package types

// Client -> Server
// start_game:
//   max_turns: number | string (non-numeric -> unlimited)
//
// kick_player:
//   target_id: number
//
// batch_update:
//   updates: [{row, col, value}]
//
// end_turn / pass_turn: {}
//
// vote_reset: {}
//
// vote_skip: {}
//
// veto_skip: {}
//
// drag_move (transient):
//   shape_idx: number
//   row: number
//   col: number
//
// drag_end: {}

// Server -> Client
// welcome:
//   your_id: number
//   your_name: string
//   board: number[8][8]
//   room_id: string
//   host_id: number
//   is_playing: boolean
//   restored: boolean
//
// game_state:
//   count: number
//   ranking: [{id, name, score}] // sorted by score descending
//   current_turn: number // 0 when no turn holder
//   turn_start_time: number // unix seconds
//   skip_votes: number[]
//   reset_votes: number[]
//   host_id: number
//   is_playing: boolean
//   round_info: "current/max" | "∞"
//
// init:
//   board: number[8][8] // fresh board after a reset
//
// batch_update:
//   updates: [{row, col, value}] // player echoes and server line clears
//
// game_over:
//   ranking: [] // clients keep the last game_state ranking
//
// error:
//   message: string // room full, kicked
//
// remote_drag:
//   player_id: number
//   shape_idx: number
//   row: number
//   col: number
//
// remote_drag_end:
//   player_id: number

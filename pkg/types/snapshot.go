package types

// StateSnapshot:
//   version: number
//   state:
//     screen: "home" | "settings" | "game"
//     config: { boxCount, selectedLetters, letterCase }
//     round?: // only on the game screen
//       boxes: { id, letter, word, icon, variant: 0..3,
//                reveal_state: "closed" | "shaking" | "letterRevealing" | "fullyRevealed" }[]
//       active_box: number // -1 when none
//       result?: { letter, word, icon } // letter already in the configured case
//       gen: number
//   events?: { type, box_id, cue?: "click" | "reveal" | "success", step?, gen }[]
//     // cues are the sound/animation hints for this version

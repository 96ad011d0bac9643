package app

// MinSurvivors is the smallest pool a run may carry out of the categories and filter phases.
// A bracket needs at least one match.
const MinSurvivors = 2

package common

// VampireVersion is the current version of vampire
const VampireVersion = "1.0.0"

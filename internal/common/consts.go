package common

// UnknownStr is the String() value of enum values outside their defined range.
const UnknownStr = "unknown"

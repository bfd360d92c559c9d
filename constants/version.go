package constants

// Version of the library and tools.
const Version = "1.0.0"

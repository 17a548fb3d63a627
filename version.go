package respkv

// Version is the current version of the respkv library
const Version = "0.1.0"

package qsharp

// Version is the compiled toolchain version reported by the CLI.
const Version = "0.3.1"

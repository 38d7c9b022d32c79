package util

// Options is the plain struct threaded through the compiler pipeline,
// adapted from the teacher's src/util/args.go Options: every
// multi-architecture/thread-count field is trimmed, since spec.md §5
// mandates a single sequential target (the host LLVM JIT) and rules out
// concurrency outright. Parsing itself is delegated to Cobra flags
// (cmd/simplyc); Options remains a plain struct passed by value, exactly
// as it does in the teacher.
type Options struct {
	Src         string  // Path to source file (build/tokens subcommands).
	Verbose     bool    // Print the generated LLVM IR before running it.
	TokenStream bool    // Print the token stream and exit (mirrors the teacher's -ts).
	EmitLLVM    bool    // Dump verified LLVM IR instead of running it.
	Args        []int32 // Integer arguments to pass to main.
}

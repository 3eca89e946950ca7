// Package emit renders allocated, peephole-cleaned MIR as Intel-syntax
// x86-64 assembly text. Grounded on
// original_source/src/code_gen/target/x86/generator.cpp (fixed prologue,
// per-opcode translation switch) and the teacher's util.Writer (buffered,
// per-goroutine assembly output).
package emit

// prologue is the fixed entry sequence every program carries: a libc-free
// main that calls into the compiled _main and exits with its return value
// via the raw syscall. The original C++ generator's prologue string has a
// stray colon on the call line ("call _main:"); that typo is not carried
// over here.
const prologue = ".intel_syntax noprefix\n" +
	".global main\n" +
	".global _main\n" +
	".text\n" +
	"main:\n" +
	"\tcall\t_main\n" +
	"\tmov\trdi, rax\n" +
	"\tmov\trax, 0x3C\n" +
	"\tsyscall\n"

// functionLabel returns the assembler symbol a MIR function is addressed
// by. Every function is underscore-prefixed, matching the prologue's fixed
// "_main" entry symbol for the function named "main".
func functionLabel(name string) string {
	return "_" + name
}

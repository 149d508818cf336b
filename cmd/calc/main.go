// Program calc evaluates, simplifies, differentiates, integrates and
// approximates real functions of several variables from the command
// line. Run "calc repl" for an interactive session.
package main

func main() {
	Execute()
}

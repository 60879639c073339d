// Command puffs runs handshake benches and inspects their recordings.
package main

func main() {
	Execute()
}

// genhash imprime el hash bcrypt de una contraseña; sirve para armar seeds o
// resetear cuentas a mano. Sin argumentos usa la contraseña del seed.
package main

import (
	"fmt"
	"os"

	"golang.org/x/crypto/bcrypt"
)

func main() {
	pass := "pos2026"
	if len(os.Args) > 1 {
		pass = os.Args[1]
	}
	h, err := bcrypt.GenerateFromPassword([]byte(pass), 12)
	if err != nil {
		panic(err)
	}
	fmt.Println(string(h))
}

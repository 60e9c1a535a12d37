// Command dbusdump decodes a stream of raw D-Bus messages and prints
// their structure, one message per block. It is meant for inspecting
// captures taken off a socket (e.g. with socat or tcpdump -w), not for
// talking to a running bus.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	dbus "github.com/OtaK/dbus-parser"
)

func main() {
	log.SetFlags(0)
	log.SetPrefix("dbusdump: ")

	path := flag.String("f", "", "file to read messages from (default: stdin)")
	flag.Parse()

	in := os.Stdin
	if *path != "" {
		f, err := os.Open(*path)
		if err != nil {
			log.Fatal(err)
		}
		defer f.Close()
		in = f
	}

	buf, err := io.ReadAll(in)
	if err != nil {
		log.Fatalf("reading input: %v", err)
	}

	n := 0
	for len(buf) > 0 {
		msg, consumed, err := dbus.DecodeMessage(buf)
		if err != nil {
			if err == dbus.ErrNeedMoreBytes {
				log.Fatalf("message %d: truncated, %d trailing bytes", n, len(buf))
			}
			log.Fatalf("message %d: %v", n, err)
		}
		dump(n, msg)
		buf = buf[consumed:]
		n++
	}
}

func dump(n int, msg *dbus.Message) {
	fmt.Printf("--- message %d ---\n", n)
	fmt.Printf("type:    %s\n", msg.Header.Type)
	fmt.Printf("serial:  %d\n", msg.Header.Serial)
	fmt.Printf("flags:   %#02x\n", byte(msg.Header.Flags))
	if msg.Fields.Path != nil {
		fmt.Printf("path:       %s\n", *msg.Fields.Path)
	}
	if msg.Fields.Interface != nil {
		fmt.Printf("interface:  %s\n", *msg.Fields.Interface)
	}
	if msg.Fields.Member != nil {
		fmt.Printf("member:     %s\n", *msg.Fields.Member)
	}
	if msg.Fields.ErrorName != nil {
		fmt.Printf("error_name: %s\n", *msg.Fields.ErrorName)
	}
	if msg.Fields.ReplySerial != nil {
		fmt.Printf("reply_to:   %d\n", *msg.Fields.ReplySerial)
	}
	if msg.Fields.Destination != nil {
		fmt.Printf("dest:       %s\n", *msg.Fields.Destination)
	}
	if msg.Fields.Sender != nil {
		fmt.Printf("sender:     %s\n", *msg.Fields.Sender)
	}
	for _, v := range msg.Body {
		fmt.Printf("body:       %s\n", dbus.MakeVariant(v).String())
	}
}

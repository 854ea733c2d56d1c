package main

import (
	"fmt"
	"os"

	"github.com/ashokshau/qrframe/qrcode"
)

func main() {
	// The content to encode
	content := "https://www.google.com"
	filename := "test_qr.png"

	fmt.Printf("Generating QR code for: %s\n", content)

	// LevelM is a good balance (15% error correction)
	qr, err := qrcode.Encode(content, qrcode.LevelM)
	if err != nil {
		fmt.Printf("Error creating QR: %v\n", err)
		return
	}
	fmt.Printf("Version %d, mask %d, %dx%d modules\n", qr.Version(), qr.Mask(), qr.Size(), qr.Size())

	// Open file for writing
	file, err := os.Create(filename)
	if err != nil {
		fmt.Printf("Error creating file: %v\n", err)
		return
	}
	defer file.Close()

	// Scale 10 means each module (dot) is 10x10 pixels
	if err := qr.WritePNG(file, 10); err != nil {
		fmt.Printf("Error writing PNG: %v\n", err)
		return
	}
	fmt.Printf("Successfully saved QR code to %s\n", filename)

	// The same symbol as vector graphics
	svg, err := os.Create("test_qr.svg")
	if err != nil {
		fmt.Printf("Error creating file: %v\n", err)
		return
	}
	defer svg.Close()
	if err := qr.WriteSVG(svg); err != nil {
		fmt.Printf("Error writing SVG: %v\n", err)
		return
	}

	// And as text
	text, err := qr.HalfBlocks(2)
	if err != nil {
		fmt.Printf("Error rendering text: %v\n", err)
		return
	}
	fmt.Print(text)

	// Verify by reading it back
	fmt.Println("Verifying by reading the file back...")

	readFile, err := os.Open(filename)
	if err != nil {
		fmt.Printf("Error opening file: %v\n", err)
		return
	}
	defer readFile.Close()

	decoded, err := qrcode.Decode(readFile)
	if err != nil {
		fmt.Printf("Error decoding QR: %v\n", err)
		return
	}

	fmt.Printf("Decoded content: %s\n", decoded)

	if decoded == content {
		fmt.Println("SUCCESS: Decoded content matches original!")
	} else {
		fmt.Println("FAILURE: Content mismatch.")
	}
}

package cmd

import (
	"bytes"
	"crypto/ecdsa"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"

	"github.com/ardanlabs/starledger/foundation/ledger/signature"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/spf13/cobra"
)

var (
	url   string
	name  string
	ra    string
	dec   string
	story string
)

// registerCmd runs the full ownership verification flow against a node:
// request a challenge, sign it, and submit the star claim.
var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Register a star claim",
	Run: func(cmd *cobra.Command, args []string) {
		privateKey, err := crypto.LoadECDSA(getPrivateKeyPath())
		if err != nil {
			log.Fatal(err)
		}

		registerStar(privateKey)
	},
}

func init() {
	rootCmd.AddCommand(registerCmd)
	registerCmd.Flags().StringVarP(&url, "url", "u", "http://localhost:8080", "Url of the node.")
	registerCmd.Flags().StringVarP(&name, "name", "n", "", "Name of the star.")
	registerCmd.Flags().StringVarP(&ra, "ra", "r", "", "Right ascension of the star.")
	registerCmd.Flags().StringVarP(&dec, "dec", "d", "", "Declination of the star.")
	registerCmd.Flags().StringVarP(&story, "story", "s", "", "Story to attach to the claim.")
}

func registerStar(privateKey *ecdsa.PrivateKey) {
	address := crypto.PubkeyToAddress(privateKey.PublicKey).String()

	message, err := requestChallenge(address)
	if err != nil {
		log.Fatal(err)
	}

	v, r, s, err := signature.Sign(message, privateKey)
	if err != nil {
		log.Fatal(err)
	}

	submission := struct {
		Address   string         `json:"address"`
		Message   string         `json:"message"`
		Signature string         `json:"signature"`
		Star      map[string]any `json:"star"`
	}{
		Address:   address,
		Message:   message,
		Signature: signature.SignatureString(v, r, s),
		Star: map[string]any{
			"owner": address,
			"name":  name,
			"ra":    ra,
			"dec":   dec,
			"story": story,
		},
	}

	data, err := json.Marshal(submission)
	if err != nil {
		log.Fatal(err)
	}

	resp, err := http.Post(fmt.Sprintf("%s/v1/stars", url), "application/json", bytes.NewBuffer(data))
	if err != nil {
		log.Fatal(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println(string(body))
}

func requestChallenge(address string) (string, error) {
	data, err := json.Marshal(struct {
		Address string `json:"address"`
	}{Address: address})
	if err != nil {
		return "", err
	}

	resp, err := http.Post(fmt.Sprintf("%s/v1/challenge", url), "application/json", bytes.NewBuffer(data))
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("challenge request failed: %s", resp.Status)
	}

	var challenge struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&challenge); err != nil {
		return "", err
	}

	return challenge.Message, nil
}

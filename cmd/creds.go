package cmd

import (
	"errors"
	"fmt"

	"github.com/urfave/cli"

	"github.com/ckzvault/ckzvault/cmd/common"
	"github.com/ckzvault/ckzvault/pkg/ckzlib"
	"github.com/ckzvault/ckzvault/pkg/credstore"
)

var (
	crToken string
	crChat  string
	crProxy string

	credsFlags = []cli.Flag{
		cli.StringFlag{
			Name:        "token, t",
			Usage:       "chat bot API token",
			Destination: &crToken,
		},
		cli.StringFlag{
			Name:        "chat, c",
			Usage:       "destination chat id",
			Destination: &crChat,
		},
		cli.StringFlag{
			Name:        "proxy",
			Usage:       "optional proxy url (socks5:// or http://) for push delivery",
			Destination: &crProxy,
		},
	}
)

func credsSet(ctx *cli.Context) error {
	creds := credstore.Credentials{
		Token:  crToken,
		ChatID: crChat,
		Proxy:  crProxy,
	}
	if err := creds.Validate(); err != nil {
		return common.PrintErrWithCmdHelp(ctx, err)
	}

	store := credstore.New(ckzlib.ConfigDir)
	if err := store.Save(creds); err != nil {
		common.PrintRuntimeErr(ctx, "creds", "save", err)
		return nil
	}
	fmt.Println("Push credentials stored.")
	return nil
}

func credsShow(ctx *cli.Context) error {
	store := credstore.New(ckzlib.ConfigDir)
	creds, err := store.Load()
	if err != nil {
		if errors.Is(err, credstore.ErrNotFound) {
			fmt.Println("No push credentials stored.")
			return nil
		}
		common.PrintRuntimeErr(ctx, "creds", "load", err)
		return nil
	}
	fmt.Printf("Destination chat: %s\n", creds.ChatID)
	fmt.Printf("Token: %s\n", redactToken(creds.Token))
	if creds.Proxy != "" {
		fmt.Printf("Proxy: %s\n", creds.Proxy)
	}
	return nil
}

func credsClear(ctx *cli.Context) error {
	store := credstore.New(ckzlib.ConfigDir)
	if err := store.Delete(); err != nil {
		common.PrintRuntimeErr(ctx, "creds", "delete", err)
		return nil
	}
	fmt.Println("Push credentials removed.")
	return nil
}

func redactToken(token string) string {
	if len(token) <= 4 {
		return "****"
	}
	return token[:4] + "****"
}

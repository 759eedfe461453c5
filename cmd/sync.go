package cmd

import (
	"context"
	"flag"

	"github.com/gontzalm/ghostsync"
	"github.com/gontzalm/ghostsync/blockscout"
	"github.com/gontzalm/ghostsync/coingecko"
	"github.com/gontzalm/ghostsync/ghostfolio"
	"github.com/gontzalm/ghostsync/indexa"
	"github.com/gontzalm/ghostsync/mempool"
	"github.com/gontzalm/ghostsync/ntfy"
	"github.com/gontzalm/ghostsync/tradernet"
	"github.com/gontzalm/ghostsync/wallet"
	"github.com/google/subcommands"
	"github.com/spf13/viper"
)

// syncCmd synchronizes every platform configured for one user.
type syncCmd struct{}

func (*syncCmd) Name() string { return "sync" }

func (*syncCmd) Synopsis() string {
	return "Synchronize a user's platform activity into Ghostfolio."
}

func (*syncCmd) Usage() string {
	return `sync <user>:
  Synchronize every platform configured for <user> into Ghostfolio: fetch new
  transactions, import them and push cash balances. Secrets are read from the
  environment as <USER>_<PLATFORM>_... variables.
`
}

func (*syncCmd) SetFlags(_ *flag.FlagSet) {}

func (c *syncCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		return fail(ghostsync.Configf("sync expects exactly one user argument"))
	}
	user := f.Arg(0)

	v, err := loadConfig()
	if err != nil {
		return fail(err)
	}
	host := v.GetString("ghostfolio.host")
	if host == "" {
		return fail(ghostsync.Configf("ghostfolio.host is not configured"))
	}
	token, err := userSecret(user, "GHOSTFOLIO_TOKEN")
	if err != nil {
		return fail(err)
	}
	gf := ghostfolio.NewClient(host, token)

	var notifier ghostsync.Notifier
	if topic := v.GetString("ghostfolio.ntfy_topic"); topic != "" {
		notifier = ntfy.NewClient(topic)
	}

	synchronizers, err := gatherSynchronizers(user, v, gf)
	if err != nil {
		return fail(err)
	}
	if err := ghostsync.Run(gf, notifier, synchronizers...); err != nil {
		return fail(err)
	}
	return subcommands.ExitSuccess
}

// gatherSynchronizers builds one synchronizer per platform configured under
// the user's section of the configuration tree. Any unknown platform, coin
// or missing secret is a fatal configuration error raised before any network
// call.
func gatherSynchronizers(user string, v *viper.Viper, gf *ghostfolio.Client) ([]ghostsync.Synchronizer, error) {
	platforms := v.GetStringMap("users." + user)
	if len(platforms) == 0 {
		return nil, ghostsync.Configf("unknown user %q", user)
	}

	var synchronizers []ghostsync.Synchronizer
	for platform := range platforms {
		pv := v.Sub("users." + user + "." + platform)
		if pv == nil {
			return nil, ghostsync.Configf("platform %q of user %q is not a configuration table", platform, user)
		}
		accountID := pv.GetString("ghostfolio_account_id")

		switch platform {
		case "indexa_capital", "indexa_capital_pension":
			apiKey, err := userSecret(user, "INDEXA_CAPITAL_API_KEY")
			if err != nil {
				return nil, err
			}
			accountType := indexa.Mutual
			if platform == "indexa_capital_pension" {
				accountType = indexa.Pension
			}
			client := indexa.NewClient(apiKey, pv.GetString("account_number"))
			synchronizers = append(synchronizers, indexa.NewSynchronizer(accountID, client, gf, accountType))

		case "freedom24":
			publicKey, err := userSecret(user, "FREEDOM24_PUBLIC_KEY")
			if err != nil {
				return nil, err
			}
			privateKey, err := userSecret(user, "FREEDOM24_PRIVATE_KEY")
			if err != nil {
				return nil, err
			}
			historical := pv.GetTime("sync_from_historical")
			if historical.IsZero() {
				historical = ghostsync.Epoch
			}
			client := tradernet.NewClient(publicKey, privateKey)
			synchronizers = append(synchronizers, tradernet.NewSynchronizer(accountID, client, historical))

		case "crypto":
			coins, err := gatherCoins(user, accountID, pv.GetStringSlice("coins"), v)
			if err != nil {
				return nil, err
			}
			synchronizers = append(synchronizers, coins...)

		default:
			return nil, ghostsync.Configf("unsupported platform %q", platform)
		}
	}
	return synchronizers, nil
}

func gatherCoins(user, accountID string, coins []string, v *viper.Viper) ([]ghostsync.Synchronizer, error) {
	apiKey, err := secret("COINGECKO_DEMO_API_KEY")
	if err != nil {
		return nil, err
	}
	prices := coingecko.NewClient(apiKey)
	proxyURL := v.GetString("crypto.proxy_url")
	delayDays := v.GetInt("crypto.tx_delay_days")

	var synchronizers []ghostsync.Synchronizer
	for _, coin := range coins {
		switch coin {
		case "BTC":
			zpub, err := userSecret(user, "BTC_ZPUB")
			if err != nil {
				return nil, err
			}
			explorer, err := mempool.NewClient(v.GetString("crypto.mempool_url"), proxyURL)
			if err != nil {
				return nil, err
			}
			btc, err := wallet.NewBTC(accountID, zpub, explorer, prices, delayDays)
			if err != nil {
				return nil, err
			}
			synchronizers = append(synchronizers, btc)

		case "ETH":
			address, err := userSecret(user, "ETH_ADDRESS")
			if err != nil {
				return nil, err
			}
			explorer, err := blockscout.NewClient(v.GetString("crypto.blockscout_url"), proxyURL)
			if err != nil {
				return nil, err
			}
			synchronizers = append(synchronizers, wallet.NewETH(accountID, address, explorer, prices, delayDays))

		default:
			return nil, ghostsync.Configf("unsupported coin %q", coin)
		}
	}
	return synchronizers, nil
}

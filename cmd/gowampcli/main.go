// SPDX-License-Identifier: Apache-2.0

// Command gowampcli is a small demonstration CLI for the gowamp client
// library. Since no production network transport is in scope (spec.md's
// Non-goals), every subcommand wires a Session to the other end of an
// in-process wamptransport.PipeTransport acting as a stand-in router, just
// enough to drive Join/Subscribe/Publish/Enroll/Call end to end.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/go-kit/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/xmidt-org/gowamp"
	"github.com/xmidt-org/gowamp/wampgokit"
	"github.com/xmidt-org/gowamp/wampmetrics"
	"github.com/xmidt-org/gowamp/wampsession"
	"github.com/xmidt-org/gowamp/wampunpack"
	"github.com/xmidt-org/sallust"
	"github.com/xmidt-org/touchstone"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "gowampcli",
		Short: "Demonstration CLI for the gowamp client library",
	}
	root.PersistentFlags().String("realm", "com.example.realm", "WAMP realm to join")
	_ = viper.BindPFlag("realm", root.PersistentFlags().Lookup("realm"))
	viper.SetEnvPrefix("gowamp")
	viper.AutomaticEnv()

	root.AddCommand(newPubSubDemoCmd())
	root.AddCommand(newRPCDemoCmd())
	return root
}

func newPubSubDemoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pubsub-demo [topic] [message]",
		Short: "Join a loopback realm, subscribe a topic, then publish one event to it",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			topic, message := args[0], args[1]
			ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Second)
			defer cancel()

			sess, stop, err := joinLoopbackSession(ctx)
			if err != nil {
				return err
			}
			defer stop()

			received := make(chan wampsession.Event, 1)
			if _, err := sess.Subscribe(ctx, topic, func(ctx context.Context, event wampsession.Event) {
				received <- event
			}); err != nil {
				return fmt.Errorf("subscribe: %w", err)
			}

			if _, err := sess.Publish(ctx, topic, []wamp.Variant{wamp.NewString(message)}, wamp.Null(), wampsession.PublishOptions{Acknowledge: true}); err != nil {
				return fmt.Errorf("publish: %w", err)
			}

			select {
			case event := <-received:
				text, _ := event.Args[0].AsString()
				fmt.Printf("received event on %q: %s\n", topic, text)
			case <-ctx.Done():
				return ctx.Err()
			}
			return nil
		},
	}
}

func newRPCDemoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rpc-demo [procedure] [arg]",
		Short: "Join a loopback realm, register a procedure that echoes its argument, then call it",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			procedure, arg := args[0], args[1]
			ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Second)
			defer cancel()

			sess, stop, err := joinLoopbackSession(ctx)
			if err != nil {
				return err
			}
			defer stop()

			echo := wampgokit.ServiceFunc(func(ctx context.Context, inv wampsession.Invocation) (wampunpack.Outcome, error) {
				return wampunpack.Result(inv.Args...), nil
			})
			service := wampgokit.LoggingMiddleware(log.NewLogfmtLogger(os.Stderr))(echo)

			if _, err := sess.Enroll(ctx, procedure, wampgokit.AsCallHandler(service), nil); err != nil {
				return fmt.Errorf("enroll: %w", err)
			}

			result, err := sess.Call(ctx, procedure, []wamp.Variant{wamp.NewString(arg)}, wamp.Null(), 0, wampsession.CallOptions{})
			if err != nil {
				return fmt.Errorf("call: %w", err)
			}
			echoed, _ := result.Args[0].AsString()
			fmt.Printf("call to %q returned: %s\n", procedure, echoed)
			return nil
		},
	}
}

// joinLoopbackSession wires a Session to a bare-bones in-process stand-in
// router: enough of HELLO/SUBSCRIBE/PUBLISH/REGISTER/CALL to carry these
// demos end to end over wamptransport.NewPipe.
func joinLoopbackSession(ctx context.Context) (*wampsession.Session, func(), error) {
	clientSide, routerSide := loopbackTransport()

	tcfg := touchstone.Config{DefaultNamespace: "gowamp", DefaultSubsystem: "cli"}
	_, pr, err := touchstone.New(tcfg)
	if err != nil {
		return nil, func() {}, fmt.Errorf("metrics: %w", err)
	}
	observer, err := wampmetrics.NewObserver(touchstone.NewFactory(tcfg, sallust.Default(), pr))
	if err != nil {
		return nil, func() {}, fmt.Errorf("metrics: %w", err)
	}

	sess := wampsession.New(clientSide, wampsession.WithLogger(sallust.Default()), wampsession.WithObserver(observer))

	router := newLoopbackRouter(routerSide)
	go router.run(ctx)
	go sess.Run(ctx)

	if _, err := sess.Join(ctx, viper.GetString("realm")); err != nil {
		return nil, func() {}, fmt.Errorf("join: %w", err)
	}
	return sess, func() { _ = sess.Terminate() }, nil
}

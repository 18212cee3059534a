package app

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/feastkart/kiosk/internal/domain/catalog"
	"github.com/feastkart/kiosk/internal/domain/checkout"
	"github.com/feastkart/kiosk/internal/domain/payment"
	"github.com/feastkart/kiosk/internal/session"
)

// FormatAmount renders an exact amount for display: two decimal places
// behind the configured currency symbol. This is the only place rounding
// happens; the calculator itself returns exact values.
func FormatAmount(amount decimal.Decimal, currency string) string {
	return currency + amount.StringFixed(2)
}

// shell is the terminal presentation layer over one session. It owns no
// cart or order state: every action goes through the session, and guarded
// workflow errors surface as "not available right now" hints rather than
// failures.
type shell struct {
	sess     *session.Session
	catalog  catalog.Repository
	currency string
	in       io.Reader
	out      io.Writer
}

func newShell(sess *session.Session, cat catalog.Repository, currency string, in io.Reader, out io.Writer) *shell {
	return &shell{sess: sess, catalog: cat, currency: currency, in: in, out: out}
}

func (sh *shell) run(ctx context.Context) error {
	sh.printf("Welcome to the kiosk. Type 'help' for commands.\n")

	lines := make(chan string)
	scanErr := make(chan error, 1)
	go func() {
		scanner := bufio.NewScanner(sh.in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		scanErr <- scanner.Err()
		close(lines)
	}()

	for {
		sh.prompt()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case line, ok := <-lines:
			if !ok {
				if err := <-scanErr; err != nil {
					return errors.Wrap(err, "read input")
				}
				return nil
			}
			quit, err := sh.dispatch(ctx, line)
			if err != nil {
				sh.printf("error: %v\n", err)
			}
			if quit {
				return nil
			}
		}
	}
}

func (sh *shell) dispatch(ctx context.Context, line string) (quit bool, err error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false, nil
	}
	cmd, args := fields[0], fields[1:]

	switch cmd {
	case "help":
		sh.printHelp()
	case "list":
		err = sh.listCatalog(ctx)
	case "search":
		err = sh.search(ctx, strings.Join(args, " "))
	case "add":
		err = sh.add(ctx, args)
	case "rm":
		err = sh.remove(args)
	case "qty":
		err = sh.changeQuantity(args)
	case "cart":
		sh.printCart()
	case "methods":
		sh.printMethods()
	case "checkout":
		err = sh.checkout()
	case "pay":
		err = sh.pay(args)
	case "confirm":
		err = sh.confirm(ctx)
	case "cancel":
		err = sh.cancel()
	case "orders":
		err = sh.orders(ctx)
	case "quit", "exit":
		return true, nil
	default:
		sh.printf("unknown command %q, try 'help'\n", cmd)
	}
	return false, err
}

func (sh *shell) printHelp() {
	sh.printf(`Commands:
  list                 show the catalog
  search <query>       filter the catalog
  add <item-id>        add an item to the cart
  rm <item-id>         remove an item from the cart
  qty <item-id> <n>    change quantity by n (negative to decrease)
  cart                 show the cart and totals
  checkout             start checkout (cart must not be empty)
  methods              list payment methods
  pay <type>           select a payment method
  confirm              confirm the order
  cancel               abandon checkout
  orders               list receipts from this session
  quit                 leave
`)
}

func (sh *shell) listCatalog(ctx context.Context) error {
	items, err := sh.catalog.List(ctx)
	if err != nil {
		return err
	}
	sh.printItems(items)
	return nil
}

func (sh *shell) search(ctx context.Context, query string) error {
	items, err := sh.catalog.Search(ctx, query)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		sh.printf("no items match %q\n", query)
		return nil
	}
	sh.printItems(items)
	return nil
}

func (sh *shell) printItems(items []catalog.Item) {
	for _, item := range items {
		marker := " "
		if !item.Available {
			marker = "x"
		}
		sh.printf("%s %-22s %-10s %8s  %s\n",
			marker, item.ID, item.Category, FormatAmount(item.Price, sh.currency), item.Name)
	}
}

func (sh *shell) add(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: add <item-id>")
	}
	before := sh.sess.Cart().Len()
	if err := sh.sess.AddItem(ctx, args[0]); err != nil {
		return err
	}
	if sh.sess.Cart().Len() == before {
		sh.printf("%s is already in the cart; use 'qty %s 1' to increase it\n", args[0], args[0])
		return nil
	}
	sh.printf("added %s\n", args[0])
	return nil
}

func (sh *shell) remove(args []string) error {
	if len(args) != 1 {
		return errors.New("usage: rm <item-id>")
	}
	sh.sess.RemoveItem(args[0])
	sh.printf("removed %s\n", args[0])
	return nil
}

func (sh *shell) changeQuantity(args []string) error {
	if len(args) != 2 {
		return errors.New("usage: qty <item-id> <delta>")
	}
	delta, err := strconv.Atoi(args[1])
	if err != nil {
		return errors.Wrap(err, "parse delta")
	}
	sh.sess.ChangeQuantity(args[0], delta)
	sh.printCart()
	return nil
}

func (sh *shell) printCart() {
	c := sh.sess.Cart()
	if c.IsEmpty() {
		sh.printf("cart is empty\n")
		return
	}
	for _, line := range c.Lines() {
		sh.printf("  %dx %-24s %8s\n",
			line.Quantity, line.Item.Name, FormatAmount(line.Item.Price, sh.currency))
	}
	t := c.Totals()
	sh.printf("  subtotal %s  tax %s  total %s\n",
		FormatAmount(t.Subtotal, sh.currency),
		FormatAmount(t.Tax, sh.currency),
		FormatAmount(t.Total, sh.currency))
}

func (sh *shell) printMethods() {
	for _, m := range payment.Methods() {
		sh.printf("  %-14s %s\n", m.Type, m.DisplayName)
	}
}

func (sh *shell) checkout() error {
	if err := sh.sess.BeginCheckout(); err != nil {
		if errors.Is(err, checkout.ErrEmptyCart) {
			sh.printf("cart is empty, nothing to check out\n")
			return nil
		}
		return err
	}
	sh.printf("checkout started, select a payment method with 'pay <type>'\n")
	return nil
}

func (sh *shell) pay(args []string) error {
	if len(args) != 1 {
		return errors.New("usage: pay <type>")
	}
	if err := sh.sess.SelectPayment(args[0]); err != nil {
		return err
	}
	sh.printf("payment method selected: %s\n", sh.sess.SelectedPayment().DisplayName)
	return nil
}

func (sh *shell) confirm(ctx context.Context) error {
	sh.printf("processing payment...\n")
	receipt, err := sh.sess.ConfirmOrder(ctx)
	if err != nil {
		if errors.Is(err, checkout.ErrNoPayment) {
			sh.printf("select a payment method first ('methods', then 'pay <type>')\n")
			return nil
		}
		return err
	}

	sh.printReceipt(receipt)
	if err := sh.sess.CompleteOrder(ctx); err != nil {
		return err
	}
	sh.printf("ready for a new order\n")
	return nil
}

func (sh *shell) printReceipt(r *checkout.Receipt) {
	sh.printf("order %s confirmed (%s %s, paid via %s)\n", r.OrderID, r.Date, r.Time, r.PaymentMethod)
	for _, item := range r.Items {
		sh.printf("  %dx %-24s %8s\n", item.Quantity, item.Name, FormatAmount(item.Price, sh.currency))
	}
	sh.printf("  subtotal %s  tax %s  total %s\n",
		FormatAmount(r.Subtotal, sh.currency),
		FormatAmount(r.Tax, sh.currency),
		FormatAmount(r.Total, sh.currency))
}

func (sh *shell) cancel() error {
	if err := sh.sess.CancelCheckout(); err != nil {
		return err
	}
	sh.printf("checkout cancelled\n")
	return nil
}

func (sh *shell) orders(ctx context.Context) error {
	receipts, err := sh.sess.Receipts(ctx)
	if err != nil {
		return err
	}
	if len(receipts) == 0 {
		sh.printf("no orders yet\n")
		return nil
	}
	for _, r := range receipts {
		sh.printf("  %s  %s %s  %s  %s\n",
			r.OrderID, r.Date, r.Time, r.PaymentMethod, FormatAmount(r.Total, sh.currency))
	}
	return nil
}

func (sh *shell) prompt() {
	state := sh.sess.State()
	if state == checkout.StateIdle {
		fmt.Fprint(sh.out, "kiosk> ")
		return
	}
	fmt.Fprintf(sh.out, "kiosk[%s]> ", state)
}

func (sh *shell) printf(format string, args ...any) {
	fmt.Fprintf(sh.out, format, args...)
}

package component

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDecorators(t *testing.T) {
	ctx := contentCtx(doc("a", buildTime))

	m := MobileOnly(Spacer{})
	require.Equal(t, "MobileOnly(Spacer)", m.Name())
	require.True(t, m.Visibility().Visible(Mobile))
	require.False(t, m.Visibility().Visible(Desktop))
	require.Equal(t, `<div class="mobile-only"><div class="spacer"></div></div>`, render(t, m, ctx))

	d := DesktopOnly(Spacer{})
	require.Equal(t, "DesktopOnly(Spacer)", d.Name())
	require.True(t, d.Visibility().Visible(Desktop))
	require.False(t, d.Visibility().Visible(Mobile))
	require.Equal(t, `<div class="desktop-only"><div class="spacer"></div></div>`, render(t, d, ctx))

	require.True(t, VisibilityOf(Spacer{}).Visible(Mobile))
	require.Equal(t, d.Visibility().Class(), VisibilityOf(d).Class())
}

func TestDecorator_EmptyInnerRendersNothing(t *testing.T) {
	ctx := contentCtx(doc("a", buildTime))
	require.Empty(t, render(t, DesktopOnly(TableOfContents{}), ctx))
}

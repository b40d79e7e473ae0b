package scraper

// In-page scripts. Each runs as a single evaluation round-trip; every
// script is defensive about missing APIs and cross-origin access because
// it executes inside arbitrary third-party pages.

// probeJS gathers the state the interstitial detector inspects.
const probeJS = `() => {
	const probe = {
		url: location.href,
		bodyText: "",
		hasTurnstile: false,
		hasRecaptcha: false,
		challengeFrame: false,
	};
	try {
		probe.bodyText = (document.body ? document.body.innerText : "").slice(0, 5000);
	} catch (e) {}
	try {
		probe.hasTurnstile = !!document.querySelector(
			'.cf-turnstile, [data-sitekey][data-callback*="turnstile"], iframe[src*="challenges.cloudflare.com"]');
		probe.hasRecaptcha = !!document.querySelector(
			'.g-recaptcha, iframe[src*="google.com/recaptcha"], iframe[src*="recaptcha.net"]');
		probe.challengeFrame = !!document.querySelector(
			'iframe[src*="captcha"], iframe[title*="challenge" i]');
	} catch (e) {}
	return probe;
}`

// consentClickJS enumerates visible clickables, builds normalized text
// signatures, and clicks the first accept-intent element not carrying a
// negative-intent word. One click per pass, first match wins in DOM order.
const consentClickJS = `(negatives, exacts, subs) => {
	const visible = (el) => {
		const style = window.getComputedStyle(el);
		if (style.display === "none" || style.visibility === "hidden") return false;
		const rect = el.getBoundingClientRect();
		return rect.width > 0 && rect.height > 0;
	};
	const signature = (el) => {
		const parts = [el.innerText || "", el.getAttribute("aria-label") || "", el.value || ""];
		return parts.join(" ").toLowerCase().split(/\s+/).filter(Boolean).join(" ");
	};

	const clickables = document.querySelectorAll(
		'button, a[role="button"], input[type="button"], input[type="submit"], [aria-label]');
	const candidates = [];
	for (const el of clickables) {
		if (!visible(el)) continue;
		const sig = signature(el);
		if (!sig || sig.length > 80) continue;
		if (negatives.some((n) => sig.includes(n))) continue;
		candidates.push([el, sig]);
	}
	for (const [el, sig] of candidates) {
		if (exacts.includes(sig)) { el.click(); return true; }
	}
	for (const [el, sig] of candidates) {
		if (subs.some((s) => sig.includes(s))) { el.click(); return true; }
	}
	return false;
}`

// discoveryJS is the pure DOM read producing the asset inventory and the
// measured image candidate list. Cross-origin stylesheet rule access
// throws; those sheets are skipped, an accepted undercount.
const discoveryJS = `(maxCandidates) => {
	const out = {
		records: [],
		candidates: [],
		videoEmbeds: [],
		logoURL: "",
		inlineLogoSVG: "",
		title: document.title || "",
		finalURL: location.href,
		h1: "",
		description: "",
		siteName: "",
		language: document.documentElement.getAttribute("lang") || "",
	};
	const seen = new Set();
	const add = (url, kind) => {
		if (!url) return "";
		let abs;
		try { abs = new URL(url, location.href).href; } catch (e) { return ""; }
		if (!abs.startsWith("http")) return "";
		if (!seen.has(abs)) {
			seen.add(abs);
			out.records.push({ url: abs, kind });
		}
		return abs;
	};

	const h1 = document.querySelector("h1");
	if (h1) out.h1 = (h1.innerText || "").trim().slice(0, 300);
	const desc = document.querySelector('meta[name="description"], meta[property="og:description"]');
	if (desc) out.description = desc.getAttribute("content") || "";
	const site = document.querySelector('meta[property="og:site_name"]');
	if (site) out.siteName = site.getAttribute("content") || "";

	for (const img of document.querySelectorAll("img")) {
		const src = img.currentSrc || img.src || img.getAttribute("data-src") || img.getAttribute("data-lazy-src");
		const abs = add(src, "image");
		if (!abs) continue;
		const rect = img.getBoundingClientRect();
		const onScreen = Math.max(0, Math.round(rect.width * rect.height));
		out.candidates.push({
			url: abs,
			on_screen_area: onScreen,
			natural_area: (img.naturalWidth || 0) * (img.naturalHeight || 0),
			width: img.naturalWidth || Math.round(rect.width) || 0,
			height: img.naturalHeight || Math.round(rect.height) || 0,
		});
	}
	for (const link of document.querySelectorAll('link[rel~="icon"], link[rel*="apple-touch-icon"]')) {
		add(link.href, "image");
	}
	for (const meta of document.querySelectorAll('meta[property="og:image"], meta[property="og:image:url"], meta[name="twitter:image"]')) {
		const abs = add(meta.content, "image");
		if (abs) out.candidates.push({ url: abs, on_screen_area: 0, natural_area: 0, width: 0, height: 0 });
	}

	const videoRe = /\.(mp4|webm|m3u8|mov)(\?|#|$)/i;
	for (const v of document.querySelectorAll("video, video source")) {
		const src = v.src || v.getAttribute("data-src");
		if (src) add(src, "video");
	}
	for (const a of document.querySelectorAll("a[href]")) {
		if (videoRe.test(a.getAttribute("href") || "")) add(a.href, "video");
	}
	for (const meta of document.querySelectorAll('meta[property^="og:video"], meta[name="twitter:player"]')) {
		if (meta.content) out.videoEmbeds.push({ type: "meta", embed_url: meta.content });
	}
	for (const el of document.querySelectorAll("[data-vid-uuid], img.vidyard-player-embed[data-uuid]")) {
		const uuid = el.getAttribute("data-vid-uuid") || el.getAttribute("data-uuid");
		if (uuid) out.videoEmbeds.push({
			type: "vidyard",
			embed_url: "https://play.vidyard.com/" + uuid,
			thumb_url: el.src || "",
		});
	}

	for (const link of document.querySelectorAll('link[rel="stylesheet"][href]')) {
		add(link.href, "stylesheet");
	}
	for (const script of document.querySelectorAll("script[src]")) {
		add(script.src, "script");
	}

	const fontRe = /url\(\s*['"]?([^'")]+)['"]?\s*\)/g;
	const scanCSS = (text) => {
		let m;
		while ((m = fontRe.exec(text)) !== null) {
			if (/\.(woff2?|ttf|otf|eot)(\?|#|$)/i.test(m[1])) add(m[1], "font");
		}
	};
	for (const style of document.querySelectorAll("style")) {
		scanCSS(style.textContent || "");
	}
	for (const sheet of document.styleSheets) {
		try {
			for (const rule of sheet.cssRules) {
				if (rule.cssText && rule.cssText.includes("url(")) scanCSS(rule.cssText);
			}
		} catch (e) {}  // cross-origin sheet
	}

	// Logo pick: header/nav placement dominates; badge words are penalized.
	// A hint-free image still qualifies at score 0, only penalized ones drop out.
	let bestScore = -999;
	let bestURL = "";
	const host = location.hostname.replace(/^www\./, "");
	const brand = host.split(".")[0];
	for (const img of document.querySelectorAll("img[src]")) {
		const abs = add(img.src, "image");
		if (!abs) continue;
		let score = 0;
		if (img.closest("header, nav")) score += 50;
		else if (img.closest('a[href="/"]')) score += 50;
		const hint = (img.src + " " + (img.alt || "") + " " + img.className + " " + img.id).toLowerCase();
		if (brand && hint.includes(brand)) score += 40;
		if (hint.includes("logo")) score += 20;
		for (const bad of ["badge", "award", "review", "partner", "certified", "trust", "g2", "capterra"]) {
			if (hint.includes(bad)) score -= 25;
		}
		try { if (new URL(abs).hostname.replace(/^www\./, "") === host) score += 10; } catch (e) {}
		if (score > bestScore) { bestScore = score; bestURL = abs; }
	}
	if (bestScore >= 0) out.logoURL = bestURL;
	if (!out.logoURL) {
		const svg = document.querySelector("header svg, nav svg, a[href='/'] svg");
		if (svg) out.inlineLogoSVG = svg.outerHTML;
	}

	out.candidates = out.candidates.slice(0, maxCandidates * 4);
	return out;
}`

// styleSampleJS sweeps up to limit visible elements in document order and
// builds per-channel frequency tables keyed by the raw computed value.
const styleSampleJS = `(limit) => {
	const bump = (table, value) => {
		if (!value) return;
		table[value] = (table[value] || 0) + 1;
	};
	const out = {
		backgroundColors: {},
		textColors: {},
		borderColors: {},
		linkColors: {},
		fontFamilies: {},
		fontSizes: {},
		fontWeights: {},
		lineHeights: {},
		sampledElements: 0,
	};

	const walker = document.createTreeWalker(document.body || document.documentElement, NodeFilter.SHOW_ELEMENT);
	let el;
	while ((el = walker.nextNode()) && out.sampledElements < limit) {
		const style = window.getComputedStyle(el);
		if (style.display === "none" || style.visibility === "hidden") continue;
		const rect = el.getBoundingClientRect();
		if (rect.width <= 0 || rect.height <= 0) continue;

		out.sampledElements++;
		bump(out.backgroundColors, style.backgroundColor);
		bump(out.textColors, style.color);
		bump(out.borderColors, style.borderTopColor);
		if (el.tagName === "A") bump(out.linkColors, style.color);
		bump(out.fontFamilies, style.fontFamily);
		bump(out.fontSizes, style.fontSize);
		bump(out.fontWeights, style.fontWeight);
		bump(out.lineHeights, style.lineHeight);
	}
	return out;
}`

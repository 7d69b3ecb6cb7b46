package db

import (
	"context"

	"github.com/Ahsan-Ullah1871/chat-website-builder/internal/models"
)

const DefaultProjectName = "My New Project"

type TemplateFile struct {
	Path    string
	Content string
}

// DefaultFiles is the Next.js + Tailwind skeleton every new project starts from.
func DefaultFiles() []TemplateFile {
	return []TemplateFile{
		{Path: "app/page.tsx", Content: homePage},
		{Path: "app/globals.css", Content: globalsCSS},
		{Path: "app/layout.tsx", Content: rootLayout},
		{Path: "components/ui/button.tsx", Content: buttonComponent},
		{Path: "components/ui/card.tsx", Content: cardComponent},
		{Path: "tailwind.config.ts", Content: tailwindConfig},
		{Path: "package.json", Content: packageJSON},
		{Path: "next.config.ts", Content: nextConfig},
		{Path: "tsconfig.json", Content: tsConfig},
	}
}

type projectLister interface {
	ListRecentProjects(ctx context.Context, limit int) ([]models.Project, error)
	CreateProject(ctx context.Context, name string) (*models.Project, error)
	GetProject(ctx context.Context, id string) (*models.Project, error)
}

func initProject(ctx context.Context, s projectLister) (*models.Project, error) {
	recent, err := s.ListRecentProjects(ctx, 1)
	if err != nil {
		return nil, err
	}
	if len(recent) > 0 {
		return s.GetProject(ctx, recent[0].ID)
	}

	created, err := s.CreateProject(ctx, DefaultProjectName)
	if err != nil {
		return nil, err
	}
	return s.GetProject(ctx, created.ID)
}

const homePage = `"use client";

import { useState } from "react";
import { Button } from "@/components/ui/button";
import { Card } from "@/components/ui/card";

export default function Home() {
	const [count, setCount] = useState(0);

	return (
		<main className="min-h-screen bg-gradient-to-br from-indigo-500 to-purple-600 flex items-center justify-center p-4">
			<Card className="p-8 max-w-md w-full">
				<h1 className="text-3xl font-bold text-gray-800 mb-4">Welcome to Your App</h1>
				<p className="text-gray-600 mb-6">Start building your amazing application!</p>
				<Button onClick={() => setCount(count + 1)}>Count: {count}</Button>
			</Card>
		</main>
	);
}`

const globalsCSS = `@tailwind base;
@tailwind components;
@tailwind utilities;

body {
	color: rgb(0, 0, 0);
	background: white;
}`

const rootLayout = `import type { Metadata } from "next";
import { Inter } from "next/font/google";
import "./globals.css";

const inter = Inter({ subsets: ["latin"] });

export const metadata: Metadata = {
	title: "Your App",
	description: "Created with NoCode Builder",
};

export default function RootLayout({ children }: { children: React.ReactNode }) {
	return (
		<html lang="en">
			<body className={inter.className}>{children}</body>
		</html>
	);
}`

const buttonComponent = `interface ButtonProps extends React.ButtonHTMLAttributes<HTMLButtonElement> {
	variant?: "primary" | "secondary" | "outline";
	size?: "sm" | "md" | "lg";
}

const variants = {
	primary: "bg-blue-500 text-white hover:bg-blue-600 focus:ring-blue-500",
	secondary: "bg-gray-200 text-gray-900 hover:bg-gray-300 focus:ring-gray-500",
	outline: "border-2 border-gray-300 text-gray-700 hover:bg-gray-50 focus:ring-gray-500",
};

const sizes = {
	sm: "px-3 py-1.5 text-sm",
	md: "px-4 py-2 text-base",
	lg: "px-6 py-3 text-lg",
};

export function Button({ children, variant = "primary", size = "md", className = "", ...props }: ButtonProps) {
	const base = "rounded-lg font-medium transition-colors focus:outline-none focus:ring-2 focus:ring-offset-2";
	return (
		<button className={[base, variants[variant], sizes[size], className].join(" ")} {...props}>
			{children}
		</button>
	);
}`

const cardComponent = `interface CardProps extends React.HTMLAttributes<HTMLDivElement> {}

export function Card({ children, className = "", ...props }: CardProps) {
	return (
		<div className={["bg-white rounded-xl shadow-2xl", className].join(" ")} {...props}>
			{children}
		</div>
	);
}`

const tailwindConfig = `import type { Config } from "tailwindcss";

const config: Config = {
	content: [
		"./pages/**/*.{js,ts,jsx,tsx,mdx}",
		"./components/**/*.{js,ts,jsx,tsx,mdx}",
		"./app/**/*.{js,ts,jsx,tsx,mdx}",
	],
	theme: {
		extend: {},
	},
	plugins: [],
};

export default config;`

const packageJSON = `{
	"name": "nextjs-app",
	"version": "0.1.0",
	"private": true,
	"scripts": {
		"dev": "next dev",
		"build": "next build",
		"start": "next start",
		"lint": "next lint"
	},
	"dependencies": {
		"next": "15.3.1",
		"react": "^19.0.0",
		"react-dom": "^19.0.0",
		"tailwindcss": "^3.4.1",
		"postcss": "^8",
		"autoprefixer": "^10.0.1"
	}
}`

const nextConfig = `import type { NextConfig } from "next";

const nextConfig: NextConfig = {
	images: {
		remotePatterns: [{ hostname: "**" }],
	},
};

export default nextConfig;`

const tsConfig = `{
	"compilerOptions": {
		"target": "ES2017",
		"lib": ["dom", "dom.iterable", "esnext"],
		"allowJs": true,
		"skipLibCheck": true,
		"strict": true,
		"noEmit": true,
		"esModuleInterop": true,
		"module": "esnext",
		"moduleResolution": "bundler",
		"resolveJsonModule": true,
		"isolatedModules": true,
		"jsx": "preserve",
		"incremental": true,
		"plugins": [{ "name": "next" }],
		"paths": { "@/*": ["./*"] }
	},
	"include": ["next-env.d.ts", "**/*.ts", "**/*.tsx", ".next/types/**/*.ts"],
	"exclude": ["node_modules"]
}`
